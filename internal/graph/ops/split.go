package ops

import (
	"fmt"

	"github.com/born-ml/onnxkit/internal/graph"
	"github.com/born-ml/onnxkit/internal/onnx"
)

// Split divides a value into equal parts along one axis. It is the catalog's
// multi-output operation: each part is exposed as a graph.Slot holding a
// shared reference back to the Split, so the operation is traversed once no
// matter how many parts are consumed.
type Split struct {
	base
	axis     int64
	outShape graph.Shape
	outDType graph.DataType
	slots    []graph.Value
}

// NewSplit creates a Split producing parts equal slices of x along axis.
// A fixed dimension must divide evenly; a symbolic or unresolved dimension
// yields parts with an unresolved dimension at the split axis.
func NewSplit(name string, x graph.Value, axis int64, parts int) (*Split, error) {
	if parts < 1 {
		return nil, fmt.Errorf("%w: Split needs at least one output, got %d", graph.ErrInvalidInput, parts)
	}
	in := x.Shape()
	rank := int64(in.Rank())
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		return nil, fmt.Errorf("%w: axis %d out of range for rank %d", graph.ErrInvalidInput, axis, rank)
	}

	outShape := in.Clone()
	d := in[axis]
	switch {
	case d.Known():
		if d.Value()%int64(parts) != 0 {
			return nil, fmt.Errorf("%w: dimension %s does not divide into %d parts", graph.ErrShapeMismatch, d, parts)
		}
		outShape[axis] = graph.FixedDim(d.Value() / int64(parts))
	default:
		outShape[axis] = graph.UnresolvedDim()
	}

	op := &Split{
		base:     base{Ident: graph.NewIdent(), name: name, inputs: []graph.Value{x}},
		axis:     axis,
		outShape: outShape,
		outDType: x.DType(),
	}
	op.slots = make([]graph.Value, parts)
	for i := range op.slots {
		op.slots[i] = graph.NewSlot(op, i)
	}
	return op, nil
}

// OpType returns "Split".
func (*Split) OpType() string { return "Split" }

// Attributes returns axis and num_outputs.
func (s *Split) Attributes() []onnx.AttributeProto {
	return []onnx.AttributeProto{
		intAttr("axis", s.axis),
		intAttr("num_outputs", int64(len(s.slots))),
	}
}

// Outputs returns the slot values, one per part.
func (s *Split) Outputs() []graph.Value { return s.slots }

// NumOutputs returns the number of parts.
func (s *Split) NumOutputs() int { return len(s.slots) }

// OutputDType returns the element type of slot i.
func (s *Split) OutputDType(int) graph.DataType { return s.outDType }

// OutputShape returns the shape of slot i; all parts share one shape.
func (s *Split) OutputShape(int) graph.Shape { return s.outShape }

// Output returns the Value for part i.
func (s *Split) Output(i int) graph.Value { return s.slots[i] }

var _ graph.MultiOutput = (*Split)(nil)
