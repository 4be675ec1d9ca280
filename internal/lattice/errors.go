package lattice

import "errors"

var (
	// ErrInvalidSize indicates a lattice side length that is zero or negative.
	ErrInvalidSize = errors.New("lattice: size must be positive")

	// ErrInvalidSpins indicates an explicit spin grid that is ragged or holds
	// values other than -1 and +1.
	ErrInvalidSpins = errors.New("lattice: spins must form a square grid of ±1 values")
)
