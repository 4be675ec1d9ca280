package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/umdetree/Ising2D-Wolff/internal/sampler"
)

const (
	ModeSeries = "series"
	ModeScan   = "scan"

	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
	binderFile   = "binder.csv"
	scalingFile  = "scaling.csv"
)

// Store records the outputs of finished runs, one directory per run. It never
// holds lattice state.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	Timestamp time.Time `json:"timestamp"`
	Seed      int64     `json:"seed"`
	Size      int       `json:"size"`
	J         float64   `json:"j"`

	Beta           float64 `json:"beta,omitempty"`
	Steps          int     `json:"steps,omitempty"`
	StepsPerSample int     `json:"steps_per_sample,omitempty"`

	BetaStart float64 `json:"beta_start,omitempty"`
	BetaEnd   float64 `json:"beta_end,omitempty"`
	MCTimes   int     `json:"mc_times,omitempty"`
	Points    int     `json:"points,omitempty"`

	Summary map[string]float64 `json:"summary,omitempty"`
}

// SaveSeries writes meta and the series as states of a time-series run.
func (s *Store) SaveSeries(meta RunMetadata, series *sampler.Series) (string, error) {
	meta.Mode = ModeSeries
	runDir, err := s.create(&meta)
	if err != nil {
		return "", err
	}

	rows := [][]string{{"step", "energy", "magnetization", "cluster_size"}}
	for i := 0; i < series.Len(); i++ {
		rows = append(rows, []string{
			strconv.Itoa(i),
			formatFloat(series.Energy[i]),
			formatFloat(series.Magnetization[i]),
			strconv.Itoa(series.ClusterSizes[i]),
		})
	}
	if err := writeCSV(filepath.Join(runDir, seriesFile), rows); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// SaveScan writes meta and both scan curve families in long format
// (size, x, y).
func (s *Store) SaveScan(meta RunMetadata, binder, scaling []sampler.Curve) (string, error) {
	meta.Mode = ModeScan
	runDir, err := s.create(&meta)
	if err != nil {
		return "", err
	}

	if err := writeCSV(filepath.Join(runDir, binderFile), curveRows("temperature", "binder", binder)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, scalingFile), curveRows("scaled_temperature", "scaled_magnetization", scaling)); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (s *Store) create(meta *RunMetadata) (string, error) {
	now := time.Now()
	meta.Timestamp = now
	meta.ID = fmt.Sprintf("%s_%s", meta.Mode, now.Format("20060102-150405.000"))
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return runDir, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads back the series of a time-series run.
func (s *Store) LoadSeries(runID string) (*sampler.Series, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}

	series := &sampler.Series{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 4 {
			continue
		}
		e, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: row %d energy: %w", i, err)
		}
		m, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: row %d magnetization: %w", i, err)
		}
		c, err := strconv.Atoi(record[3])
		if err != nil {
			return nil, fmt.Errorf("storage: row %d cluster size: %w", i, err)
		}
		series.Energy = append(series.Energy, e)
		series.Magnetization = append(series.Magnetization, m)
		series.ClusterSizes = append(series.ClusterSizes, c)
	}
	return series, nil
}

// LoadCurves reads back one curve family of a scan run; which is "binder" or
// "scaling".
func (s *Store) LoadCurves(runID, which string) ([]sampler.Curve, error) {
	name := binderFile
	if which == "scaling" {
		name = scalingFile
	}
	records, err := readCSV(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, err
	}

	var curves []sampler.Curve
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 {
			continue
		}
		size, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("storage: row %d size: %w", i, err)
		}
		x, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: row %d x: %w", i, err)
		}
		y, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: row %d y: %w", i, err)
		}
		if len(curves) == 0 || curves[len(curves)-1].Size != size {
			curves = append(curves, sampler.Curve{Size: size})
		}
		c := &curves[len(curves)-1]
		c.X = append(c.X, x)
		c.Y = append(c.Y, y)
	}
	return curves, nil
}

func curveRows(xName, yName string, curves []sampler.Curve) [][]string {
	rows := [][]string{{"size", xName, yName}}
	for _, c := range curves {
		for i := range c.X {
			rows = append(rows, []string{strconv.Itoa(c.Size), formatFloat(c.X[i]), formatFloat(c.Y[i])})
		}
	}
	return rows
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
