package export

import (
	"errors"
	"fmt"
)

// ErrNameConflict matches any NameConflictError via errors.Is.
var ErrNameConflict = errors.New("name conflict")

// NameConflictError reports a tensor name claimed by two distinct values:
// two explicit names, or a declared output name colliding with a different
// value's explicit name.
type NameConflictError struct {
	Name string
}

// Error implements the error interface.
func (e *NameConflictError) Error() string {
	return fmt.Sprintf("name conflict: %q is claimed by two distinct values", e.Name)
}

// Unwrap makes errors.Is(err, ErrNameConflict) work.
func (e *NameConflictError) Unwrap() error { return ErrNameConflict }
