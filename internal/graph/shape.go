package graph

import (
	"fmt"
	"strings"
)

// Dim is a single tensor dimension: a fixed size, a symbolic name
// (e.g., "batch"), or unresolved.
type Dim struct {
	value int64
	param string
	known bool
}

// FixedDim returns a dimension with a known size.
func FixedDim(n int64) Dim {
	return Dim{value: n, known: true}
}

// SymbolicDim returns a dimension identified by a symbolic name.
func SymbolicDim(name string) Dim {
	return Dim{param: name}
}

// UnresolvedDim returns a dimension with no size information at all.
func UnresolvedDim() Dim {
	return Dim{}
}

// Known reports whether the dimension has a fixed size.
func (d Dim) Known() bool { return d.known }

// Value returns the fixed size. Only meaningful when Known is true.
func (d Dim) Value() int64 { return d.value }

// Param returns the symbolic name, or "" for fixed/unresolved dimensions.
func (d Dim) Param() string { return d.param }

// Equal reports whether two dimensions are the same size: both fixed with
// equal values, or both symbolic with the same name.
func (d Dim) Equal(other Dim) bool {
	if d.known && other.known {
		return d.value == other.value
	}
	if !d.known && !other.known {
		return d.param != "" && d.param == other.param
	}
	return false
}

// String returns "4", "batch", or "?" depending on the dimension kind.
func (d Dim) String() string {
	switch {
	case d.known:
		return fmt.Sprintf("%d", d.value)
	case d.param != "":
		return d.param
	default:
		return "?"
	}
}

// Shape represents the ordered dimensions of a tensor.
type Shape []Dim

// ShapeOf builds a fully fixed shape from dimension sizes.
func ShapeOf(dims ...int64) Shape {
	s := make(Shape, len(dims))
	for i, d := range dims {
		s[i] = FixedDim(d)
	}
	return s
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int { return len(s) }

// NumElements returns the total element count. It returns
// ErrUnresolvedDimension if any dimension is symbolic or unresolved.
func (s Shape) NumElements() (int64, error) {
	n := int64(1)
	for i, d := range s {
		if !d.Known() {
			return 0, fmt.Errorf("%w: dimension %d of %s", ErrUnresolvedDimension, i, s)
		}
		n *= d.Value()
	}
	return n, nil
}

// Equal checks if two shapes are equal dimension by dimension.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String returns a readable form such as "[batch, 4]" or "[1, ?, 768]".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = d.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Broadcast implements NumPy-style broadcasting over partially known shapes.
//
// Dimension pairs are compared from right to left. A pair is compatible when
// the dimensions are Equal, or one side is a fixed 1, in which case the other
// side wins. Missing dimensions are treated as 1. A symbolic dimension
// against a differing fixed size (other than 1) is incompatible: the exporter
// cannot prove the runtime sizes match.
func Broadcast(a, b Shape) (Shape, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)

	for i := 0; i < maxLen; i++ {
		aIdx := len(a) - 1 - i
		bIdx := len(b) - 1 - i

		aDim := FixedDim(1)
		if aIdx >= 0 {
			aDim = a[aIdx]
		}
		bDim := FixedDim(1)
		if bIdx >= 0 {
			bDim = b[bIdx]
		}

		switch {
		case aDim.Equal(bDim):
			result[maxLen-1-i] = aDim
		case aDim.Known() && aDim.Value() == 1:
			result[maxLen-1-i] = bDim
		case bDim.Known() && bDim.Value() == 1:
			result[maxLen-1-i] = aDim
		default:
			return nil, fmt.Errorf("%w: %s vs %s (dimension %d: %s vs %s)",
				ErrIncompatibleShape, a, b, maxLen-1-i, aDim, bDim)
		}
	}

	return result, nil
}
