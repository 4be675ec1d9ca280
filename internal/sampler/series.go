package sampler

import (
	"context"
	"fmt"

	"github.com/umdetree/Ising2D-Wolff/internal/lattice"
)

// Series holds observables recorded before each sample's Wolff steps.
type Series struct {
	Energy        []float64
	Magnetization []float64
	ClusterSizes  []int
}

// Len is the number of recorded samples.
func (s *Series) Len() int { return len(s.Energy) }

// MeanClusterSize averages the flipped sites per Wolff step.
func (s *Series) MeanClusterSize(stepsPerSample int) float64 {
	if len(s.ClusterSizes) == 0 || stepsPerSample <= 0 {
		return 0
	}
	total := 0
	for _, c := range s.ClusterSizes {
		total += c
	}
	return float64(total) / float64(len(s.ClusterSizes)*stepsPerSample)
}

// Recorder samples a single lattice over time.
type Recorder struct {
	lat            *lattice.Lattice
	rng            lattice.Rand
	stepsPerSample int
	series         Series
}

func NewRecorder(l *lattice.Lattice, rng lattice.Rand, stepsPerSample, capacity int) *Recorder {
	if stepsPerSample <= 0 {
		stepsPerSample = 1
	}
	if capacity < 0 {
		capacity = 0
	}
	return &Recorder{
		lat:            l,
		rng:            rng,
		stepsPerSample: stepsPerSample,
		series: Series{
			Energy:        make([]float64, 0, capacity),
			Magnetization: make([]float64, 0, capacity),
			ClusterSizes:  make([]int, 0, capacity),
		},
	}
}

// Step records the current energy and magnetization per site, then runs
// stepsPerSample Wolff updates.
func (r *Recorder) Step() {
	r.series.Energy = append(r.series.Energy, r.lat.Energy())
	r.series.Magnetization = append(r.series.Magnetization, r.lat.MagnetizationPerSite())
	r.series.ClusterSizes = append(r.series.ClusterSizes, r.lat.SimulateWolff(r.rng, r.stepsPerSample))
}

func (r *Recorder) Lattice() *lattice.Lattice { return r.lat }
func (r *Recorder) Series() *Series           { return &r.series }
func (r *Recorder) StepsPerSample() int       { return r.stepsPerSample }

// RunSeries records steps samples of l.
func RunSeries(ctx context.Context, l *lattice.Lattice, rng lattice.Rand, steps, stepsPerSample int) (*Series, error) {
	if steps < 0 {
		return nil, fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalidOptions, steps)
	}

	rec := NewRecorder(l, rng, stepsPerSample, steps)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return rec.Series(), ctx.Err()
		default:
		}
		rec.Step()
	}
	return rec.Series(), nil
}
