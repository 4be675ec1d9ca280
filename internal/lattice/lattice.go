package lattice

import (
	"fmt"
	"math"
)

// Rand is the random source consumed by the lattice. *math/rand/v2.Rand
// satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// Lattice is an N×N grid of ±1 spins with periodic boundaries.
type Lattice struct {
	size  int
	spins []int8 // row-major, len size*size

	j    float64
	beta float64
	pAdd float64

	energy        float64
	magnetization int

	stack []int
}

// New returns a lattice whose spins are drawn independently as ±1 with
// probability ½ each.
func New(size int, j, beta float64, rng Rand) (*Lattice, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidSize, size)
	}

	l := newEmpty(size, j, beta)
	for i := range l.spins {
		l.spins[i] = int8(rng.IntN(2)*2 - 1)
	}
	l.energy, l.magnetization = l.Recompute()
	return l, nil
}

// NewFromSpins builds a lattice from an explicit square grid. The grid is
// copied.
func NewFromSpins(spins [][]int8, j, beta float64) (*Lattice, error) {
	size := len(spins)
	if size == 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidSize, size)
	}

	l := newEmpty(size, j, beta)
	for r, row := range spins {
		if len(row) != size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidSpins, r, len(row), size)
		}
		for c, s := range row {
			if s != 1 && s != -1 {
				return nil, fmt.Errorf("%w: cell (%d,%d) is %d", ErrInvalidSpins, r, c, s)
			}
			l.spins[r*size+c] = s
		}
	}
	l.energy, l.magnetization = l.Recompute()
	return l, nil
}

func newEmpty(size int, j, beta float64) *Lattice {
	return &Lattice{
		size:  size,
		spins: make([]int8, size*size),
		j:     j,
		beta:  beta,
		pAdd:  1 - math.Exp(-2*beta*j),
		stack: make([]int, 0, 4*size),
	}
}

func (l *Lattice) Size() int             { return l.size }
func (l *Lattice) Coupling() float64     { return l.j }
func (l *Lattice) Beta() float64         { return l.beta }
func (l *Lattice) Energy() float64       { return l.energy }
func (l *Lattice) Magnetization() int    { return l.magnetization }
func (l *Lattice) Spin(row, col int) int { return int(l.spins[l.index(row, col)]) }

// ClusterProbability is the bond activation probability 1 - exp(-2βJ).
func (l *Lattice) ClusterProbability() float64 { return l.pAdd }

// MagnetizationPerSite is the intensive order parameter M / N².
func (l *Lattice) MagnetizationPerSite() float64 {
	return float64(l.magnetization) / float64(l.size*l.size)
}

// Spins returns a copy of the grid.
func (l *Lattice) Spins() [][]int8 {
	out := make([][]int8, l.size)
	for r := range out {
		out[r] = make([]int8, l.size)
		copy(out[r], l.spins[r*l.size:(r+1)*l.size])
	}
	return out
}

// Recompute sums energy and magnetization over the whole grid, counting each
// bond once through its right and down neighbors. It does not modify the
// incrementally maintained values.
func (l *Lattice) Recompute() (energy float64, magnetization int) {
	n := l.size
	bonds := 0
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			s := int(l.spins[r*n+c])
			magnetization += s
			bonds += s*int(l.spins[r*n+(c+1)%n]) + s*int(l.spins[((r+1)%n)*n+c])
		}
	}
	return -l.j * float64(bonds), magnetization
}

// index maps (row, col) onto the torus.
func (l *Lattice) index(row, col int) int {
	n := l.size
	row %= n
	if row < 0 {
		row += n
	}
	col %= n
	if col < 0 {
		col += n
	}
	return row*n + col
}

// neighbors returns the right, left, down and up neighbors of site i.
func (l *Lattice) neighbors(i int) [4]int {
	n := l.size
	r, c := i/n, i%n
	return [4]int{
		r*n + (c+1)%n,
		r*n + (c+n-1)%n,
		((r+1)%n)*n + c,
		((r+n-1)%n)*n + c,
	}
}

// flip toggles site i and applies ΔE = -2·J·s'·Σneighbors, where s' is the
// spin after the flip. Only the four bonds touching i change sign; on a 1×1
// lattice every bond is a self-bond and never changes.
func (l *Lattice) flip(i int) {
	l.spins[i] = -l.spins[i]
	s := int(l.spins[i])
	l.magnetization += 2 * s

	sum := 0
	for _, nb := range l.neighbors(i) {
		if nb != i {
			sum += int(l.spins[nb])
		}
	}
	l.energy += -2 * l.j * float64(s*sum)
}
