package storage

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/umdetree/Ising2D-Wolff/internal/sampler"
)

func TestStoreSaveLoadSeries(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	series := &sampler.Series{
		Energy:        []float64{-12, -16, -20.5},
		Magnetization: []float64{0.25, 0.5, -0.125},
		ClusterSizes:  []int{1, 3, 7},
	}

	runID, err := st.SaveSeries(RunMetadata{Seed: 42, Size: 4, J: 1, Beta: 0.4, Steps: 3, StepsPerSample: 1}, series)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Mode != ModeSeries {
		t.Errorf("expected mode %q, got %q", ModeSeries, meta.Mode)
	}

	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}

	loaded, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}

	if loaded.Len() != 3 {
		t.Fatalf("expected 3 samples, got %d", loaded.Len())
	}

	for i := range series.Energy {
		if loaded.Energy[i] != series.Energy[i] || loaded.Magnetization[i] != series.Magnetization[i] || loaded.ClusterSizes[i] != series.ClusterSizes[i] {
			t.Errorf("sample %d mismatch: got (%v, %v, %v)", i, loaded.Energy[i], loaded.Magnetization[i], loaded.ClusterSizes[i])
		}
	}
}

func TestStoreSaveScan(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	binder := []sampler.Curve{
		{Size: 8, X: []float64{2.5, 2.2}, Y: []float64{0.4, math.NaN()}},
		{Size: 16, X: []float64{2.5, 2.2}, Y: []float64{0.3, 0.9}},
	}
	scaling := []sampler.Curve{
		{Size: 10, X: []float64{1.0}, Y: []float64{1.2}},
	}

	runID, err := st.SaveScan(RunMetadata{Size: 8, J: 1, MCTimes: 5, Points: 2, Summary: map[string]float64{"crossing_8_16": 2.27}}, binder, scaling)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Mode != ModeScan {
		t.Errorf("expected mode %q, got %q", ModeScan, meta.Mode)
	}
	if meta.Summary["crossing_8_16"] != 2.27 {
		t.Errorf("expected crossing 2.27, got %f", meta.Summary["crossing_8_16"])
	}

	curves, err := st.LoadCurves(runID, "binder")
	if err != nil {
		t.Fatalf("load curves failed: %v", err)
	}
	if len(curves) != 2 {
		t.Fatalf("expected 2 curves, got %d", len(curves))
	}
	if curves[1].Size != 16 || curves[1].Y[1] != 0.9 {
		t.Errorf("unexpected second curve: %+v", curves[1])
	}
	if !math.IsNaN(curves[0].Y[1]) {
		t.Errorf("expected NaN to round-trip, got %v", curves[0].Y[1])
	}

	curves, err = st.LoadCurves(runID, "scaling")
	if err != nil {
		t.Fatalf("load curves failed: %v", err)
	}
	if len(curves) != 1 || curves[0].Size != 10 {
		t.Errorf("unexpected scaling curves: %+v", curves)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.SaveSeries(RunMetadata{Size: 2}, &sampler.Series{})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{metadataFile, seriesFile} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := st.LoadSeries("nope"); err == nil {
		t.Error("expected error for missing series")
	}
}
