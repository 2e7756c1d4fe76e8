package mines

import "errors"

var (
	ErrInvalidDimensions = errors.New("invalid grid size")
	ErrInvalidDensity    = errors.New("mine density must be within [0, 1]")
	ErrInvalidLayout     = errors.New("mine layout does not match grid size")
)
