package ops

import (
	"fmt"

	"github.com/born-ml/onnxkit/internal/graph"
	"github.com/born-ml/onnxkit/internal/onnx"
)

// LayerNorm is ONNX LayerNormalization: normalization over the trailing
// dimensions starting at axis, followed by a learned scale and optional bias.
type LayerNorm struct {
	single
	axis    int64
	epsilon float32
}

// NewLayerNorm creates a LayerNormalization operation. bias may be nil.
func NewLayerNorm(name string, x, scale, bias graph.Value, axis int64, epsilon float32) (*LayerNorm, error) {
	if scale.DType() != x.DType() {
		return nil, fmt.Errorf("%w: scale is %s, input is %s", graph.ErrDTypeMismatch, scale.DType(), x.DType())
	}
	inputs := []graph.Value{x, scale}
	if bias != nil {
		if bias.DType() != x.DType() {
			return nil, fmt.Errorf("%w: bias is %s, input is %s", graph.ErrDTypeMismatch, bias.DType(), x.DType())
		}
		inputs = append(inputs, bias)
	}

	op := &LayerNorm{axis: axis, epsilon: epsilon}
	op.init(op, name, inputs, x.DType(), x.Shape())
	return op, nil
}

// OpType returns "LayerNormalization".
func (*LayerNorm) OpType() string { return "LayerNormalization" }

// Attributes returns axis and epsilon.
func (l *LayerNorm) Attributes() []onnx.AttributeProto {
	return []onnx.AttributeProto{
		intAttr("axis", l.axis),
		floatAttr("epsilon", l.epsilon),
	}
}

// RMSNorm is ONNX RMSNormalization: root-mean-square normalization over the
// trailing dimensions starting at axis with a learned scale and no bias.
type RMSNorm struct {
	single
	axis    int64
	epsilon float32
}

// NewRMSNorm creates an RMSNormalization operation.
func NewRMSNorm(name string, x, scale graph.Value, axis int64, epsilon float32) (*RMSNorm, error) {
	if scale.DType() != x.DType() {
		return nil, fmt.Errorf("%w: scale is %s, input is %s", graph.ErrDTypeMismatch, scale.DType(), x.DType())
	}

	op := &RMSNorm{axis: axis, epsilon: epsilon}
	op.init(op, name, []graph.Value{x, scale}, x.DType(), x.Shape())
	return op, nil
}

// OpType returns "RMSNormalization".
func (*RMSNorm) OpType() string { return "RMSNormalization" }

// Attributes returns axis and epsilon.
func (r *RMSNorm) Attributes() []onnx.AttributeProto {
	return []onnx.AttributeProto{
		intAttr("axis", r.axis),
		floatAttr("epsilon", r.epsilon),
	}
}

// GroupNorm is ONNX GroupNormalization: normalization over groups of
// channels (dimension 1) with a learned per-channel scale and bias.
type GroupNorm struct {
	single
	numGroups int64
	epsilon   float32
}

// NewGroupNorm creates a GroupNormalization operation. The channel
// dimension, when fixed, must divide evenly into numGroups.
func NewGroupNorm(name string, x, scale, bias graph.Value, numGroups int64, epsilon float32) (*GroupNorm, error) {
	if scale.DType() != x.DType() {
		return nil, fmt.Errorf("%w: scale is %s, input is %s", graph.ErrDTypeMismatch, scale.DType(), x.DType())
	}
	if bias.DType() != x.DType() {
		return nil, fmt.Errorf("%w: bias is %s, input is %s", graph.ErrDTypeMismatch, bias.DType(), x.DType())
	}
	in := x.Shape()
	if in.Rank() < 2 {
		return nil, fmt.Errorf("%w: GroupNormalization needs rank >= 2, got %s", graph.ErrInvalidInput, in)
	}
	if numGroups < 1 {
		return nil, fmt.Errorf("%w: GroupNormalization needs at least one group, got %d", graph.ErrInvalidInput, numGroups)
	}
	if ch := in[1]; ch.Known() && ch.Value()%numGroups != 0 {
		return nil, fmt.Errorf("%w: channel dimension %s does not divide into %d groups",
			graph.ErrShapeMismatch, ch, numGroups)
	}

	op := &GroupNorm{numGroups: numGroups, epsilon: epsilon}
	op.init(op, name, []graph.Value{x, scale, bias}, x.DType(), in)
	return op, nil
}

// OpType returns "GroupNormalization".
func (*GroupNorm) OpType() string { return "GroupNormalization" }

// Attributes returns epsilon and the group count.
func (g *GroupNorm) Attributes() []onnx.AttributeProto {
	return []onnx.AttributeProto{
		floatAttr("epsilon", g.epsilon),
		intAttr("num_groups", g.numGroups),
	}
}
