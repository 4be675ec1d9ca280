package sampler

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/umdetree/Ising2D-Wolff/internal/lattice"
)

const (
	// DefaultPoints is the number of β values on a scan grid.
	DefaultPoints = 100
)

// ScalingSizes are the lattice sizes of the finite-size scaling scan.
var ScalingSizes = []int{10, 20, 30, 40, 50}

// Options configures a temperature scan.
type Options struct {
	J float64
	// MCTimes is the number of independent trials per (size, β) point.
	MCTimes int
	// Sweeps is the number of size² Wolff-step sweeps per trial; 0 means 1.
	Sweeps int
	Seed   uint64
	// Workers bounds the number of concurrently running points; 0 means
	// GOMAXPROCS.
	Workers int
	// Progress, if set, is called after each point with the number of
	// completed points. Calls are serialized.
	Progress func(done, total int)
}

// Point is the aggregate of all trials at one (size, β).
type Point struct {
	Size    int
	Beta    float64
	Moments Moments
}

func (p Point) Temperature() float64 { return 1 / p.Beta }

// Curve is an ordered series for one lattice size.
type Curve struct {
	Size int
	X    []float64
	Y    []float64
}

// BetaGrid returns points evenly spaced values covering [start, end).
func BetaGrid(start, end float64, points int) []float64 {
	if points <= 0 {
		return nil
	}
	step := (end - start) / float64(points)
	grid := make([]float64, points)
	for i := range grid {
		grid[i] = start + float64(i)*step
	}
	return grid
}

// BinderSizes are the three sizes compared in a Binder scan around size.
func BinderSizes(size int) []int {
	return []int{size / 2, size, size * 2}
}

// Scan runs opts.MCTimes fresh-lattice trials at every (size, β) pair and
// returns the aggregates indexed as [size][β].
func Scan(ctx context.Context, sizes []int, betas []float64, opts Options) ([][]Point, error) {
	if err := validate(sizes, betas, opts); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sweeps := opts.Sweeps
	if sweeps <= 0 {
		sweeps = 1
	}

	points := make([][]Point, len(sizes))
	for si, size := range sizes {
		points[si] = make([]Point, len(betas))
		for bi, beta := range betas {
			points[si][bi] = Point{Size: size, Beta: beta}
		}
	}

	total := len(sizes) * len(betas)
	done := 0
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for si := range sizes {
		for bi := range betas {
			p := &points[si][bi]
			g.Go(func() error {
				m, err := runPoint(ctx, p.Size, p.Beta, bi, sweeps, opts)
				if err != nil {
					return err
				}
				p.Moments = m

				if opts.Progress != nil {
					mu.Lock()
					done++
					opts.Progress(done, total)
					mu.Unlock()
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// runPoint performs every trial of one (size, β) point sequentially. Trial k
// draws from its own PCG stream keyed by the point, so its result is fixed by
// the scan seed alone.
func runPoint(ctx context.Context, size int, beta float64, betaIndex, sweeps int, opts Options) (Moments, error) {
	var m Moments
	key := pointSeed(opts.Seed, size, betaIndex)
	steps := sweeps * size * size

	for trial := 0; trial < opts.MCTimes; trial++ {
		if err := ctx.Err(); err != nil {
			return m, err
		}
		tm, err := runTrial(size, opts.J, beta, steps, rand.NewPCG(key, uint64(trial)))
		if err != nil {
			return m, err
		}
		m.Merge(tm)
	}
	return m, nil
}

// runTrial equilibrates a fresh lattice for steps Wolff steps and returns its
// single-sample moments.
func runTrial(size int, j, beta float64, steps int, src rand.Source) (Moments, error) {
	var m Moments
	rng := rand.New(src)
	l, err := lattice.New(size, j, beta, rng)
	if err != nil {
		return m, err
	}
	flipped := l.SimulateWolff(rng, steps)

	m.Add(l.MagnetizationPerSite())
	m.AddClusters(flipped, steps)
	return m, nil
}

func validate(sizes []int, betas []float64, opts Options) error {
	if len(sizes) == 0 {
		return fmt.Errorf("%w: no lattice sizes", ErrInvalidOptions)
	}
	for _, size := range sizes {
		if size <= 0 {
			return fmt.Errorf("%w, got %d", lattice.ErrInvalidSize, size)
		}
	}
	if len(betas) == 0 {
		return fmt.Errorf("%w: empty beta grid", ErrInvalidOptions)
	}
	if opts.MCTimes <= 0 {
		return fmt.Errorf("%w: mc times must be positive, got %d", ErrInvalidOptions, opts.MCTimes)
	}
	return nil
}

// pointSeed mixes the scan seed with a point's coordinates (splitmix64).
func pointSeed(seed uint64, size, betaIndex int) uint64 {
	return splitmix(seed ^ splitmix(uint64(size)<<32|uint64(uint32(betaIndex))))
}

func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// BinderCurves maps each size's points to (T, U) with T = 1/β.
func BinderCurves(points [][]Point) []Curve {
	return curves(points, func(p Point) (float64, float64) {
		return p.Temperature(), p.Moments.Binder()
	})
}

// ScalingCurves maps each size's points to the collapse coordinates
// (L·(T − Tc)/Tc, ⟨|m|⟩·L^(1/8)).
func ScalingCurves(points [][]Point) []Curve {
	return curves(points, func(p Point) (float64, float64) {
		return ScaledTemperature(p.Size, p.Beta), ScaledMagnetization(p.Size, p.Moments.MeanAbs())
	})
}

func curves(points [][]Point, coord func(Point) (float64, float64)) []Curve {
	out := make([]Curve, 0, len(points))
	for _, row := range points {
		if len(row) == 0 {
			continue
		}
		c := Curve{
			Size: row[0].Size,
			X:    make([]float64, len(row)),
			Y:    make([]float64, len(row)),
		}
		for i, p := range row {
			c.X[i], c.Y[i] = coord(p)
		}
		out = append(out, c)
	}
	return out
}

// Crossing estimates where curves a and b first cross, scanning them in
// order and interpolating linearly between the bracketing samples. Both
// curves must share the same X grid; non-finite samples are skipped.
func Crossing(a, b Curve) (float64, error) {
	n := min(len(a.X), len(b.X), len(a.Y), len(b.Y))

	prev := -1
	for i := 0; i < n; i++ {
		d := a.Y[i] - b.Y[i]
		if !finite(d) || !finite(a.X[i]) {
			continue
		}
		if d == 0 {
			return a.X[i], nil
		}
		if prev >= 0 {
			dp := a.Y[prev] - b.Y[prev]
			if (dp < 0) != (d < 0) {
				t := dp / (dp - d)
				return a.X[prev] + t*(a.X[i]-a.X[prev]), nil
			}
		}
		prev = i
	}
	return 0, fmt.Errorf("%w: sizes %d and %d", ErrNoCrossing, a.Size, b.Size)
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
