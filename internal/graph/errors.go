package graph

import "errors"

// Common errors surfaced while constructing or exporting graphs.
var (
	ErrShapeMismatch       = errors.New("shape mismatch")
	ErrIncompatibleShape   = errors.New("incompatible shapes")
	ErrDTypeMismatch       = errors.New("dtype mismatch")
	ErrUnresolvedDimension = errors.New("unresolved dimension")
	ErrUnsupportedDType    = errors.New("unsupported dtype")
	ErrInvalidInput        = errors.New("invalid input")
)
