package sampler

import "errors"

var (
	// ErrInvalidOptions indicates a scan or series request that cannot run,
	// such as zero trials or an empty temperature grid.
	ErrInvalidOptions = errors.New("sampler: invalid options")

	// ErrNoCrossing indicates two Binder curves that never cross on the grid.
	ErrNoCrossing = errors.New("sampler: curves do not cross")
)
