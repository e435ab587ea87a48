package ops

import (
	"fmt"

	"github.com/born-ml/onnxkit/internal/graph"
	"github.com/born-ml/onnxkit/internal/onnx"
)

// Add is elementwise addition with NumPy-style broadcasting.
type Add struct{ single }

// NewAdd creates an Add operation.
func NewAdd(name string, a, b graph.Value) (*Add, error) {
	op := &Add{}
	if err := op.initBinary(op, name, a, b); err != nil {
		return nil, err
	}
	return op, nil
}

// OpType returns "Add".
func (*Add) OpType() string { return "Add" }

// Sub is elementwise subtraction with broadcasting.
type Sub struct{ single }

// NewSub creates a Sub operation.
func NewSub(name string, a, b graph.Value) (*Sub, error) {
	op := &Sub{}
	if err := op.initBinary(op, name, a, b); err != nil {
		return nil, err
	}
	return op, nil
}

// OpType returns "Sub".
func (*Sub) OpType() string { return "Sub" }

// Mul is elementwise multiplication with broadcasting.
type Mul struct{ single }

// NewMul creates a Mul operation.
func NewMul(name string, a, b graph.Value) (*Mul, error) {
	op := &Mul{}
	if err := op.initBinary(op, name, a, b); err != nil {
		return nil, err
	}
	return op, nil
}

// OpType returns "Mul".
func (*Mul) OpType() string { return "Mul" }

// Div is elementwise division with broadcasting.
type Div struct{ single }

// NewDiv creates a Div operation.
func NewDiv(name string, a, b graph.Value) (*Div, error) {
	op := &Div{}
	if err := op.initBinary(op, name, a, b); err != nil {
		return nil, err
	}
	return op, nil
}

// OpType returns "Div".
func (*Div) OpType() string { return "Div" }

// Sigmoid applies the logistic function elementwise.
type Sigmoid struct{ single }

// NewSigmoid creates a Sigmoid operation.
func NewSigmoid(name string, x graph.Value) *Sigmoid {
	op := &Sigmoid{}
	op.init(op, name, []graph.Value{x}, x.DType(), x.Shape())
	return op
}

// OpType returns "Sigmoid".
func (*Sigmoid) OpType() string { return "Sigmoid" }

// MatMul is matrix multiplication over the two trailing dimensions, with
// leading (batch) dimensions broadcast.
type MatMul struct{ single }

// NewMatMul creates a MatMul operation. Both operands must have rank >= 2 and
// matching dtypes. The contraction dimension (last of a, second-to-last of b)
// must agree wherever both sides carry enough information to compare; a fixed
// size against a symbolic one is accepted, since the exporter cannot prove a
// mismatch.
func NewMatMul(name string, a, b graph.Value) (*MatMul, error) {
	if a.DType() != b.DType() {
		return nil, fmt.Errorf("%w: %s != %s", graph.ErrDTypeMismatch, a.DType(), b.DType())
	}
	as, bs := a.Shape(), b.Shape()
	if as.Rank() < 2 || bs.Rank() < 2 {
		return nil, fmt.Errorf("%w: MatMul needs rank >= 2, got %s x %s", graph.ErrInvalidInput, as, bs)
	}

	ak := as[as.Rank()-1]  // contraction dim of a
	bk := bs[bs.Rank()-2]  // contraction dim of b
	if ak.Known() && bk.Known() && !ak.Equal(bk) {
		return nil, fmt.Errorf("%w: %s x %s (contraction %s vs %s)", graph.ErrShapeMismatch, as, bs, ak, bk)
	}

	batch, err := graph.Broadcast(as[:as.Rank()-2], bs[:bs.Rank()-2])
	if err != nil {
		return nil, err
	}
	shape := append(batch.Clone(), as[as.Rank()-2], bs[bs.Rank()-1])

	op := &MatMul{}
	op.init(op, name, []graph.Value{a, b}, a.DType(), shape)
	return op, nil
}

// OpType returns "MatMul".
func (*MatMul) OpType() string { return "MatMul" }

// Cast converts a value to a different element type.
type Cast struct {
	single
	to int32 // ONNX element-type code
}

// NewCast creates a Cast operation to the given data type.
func NewCast(name string, x graph.Value, to graph.DataType) (*Cast, error) {
	code, err := to.ONNX()
	if err != nil {
		return nil, err
	}
	op := &Cast{to: code}
	op.init(op, name, []graph.Value{x}, to, x.Shape())
	return op, nil
}

// OpType returns "Cast".
func (*Cast) OpType() string { return "Cast" }

// Attributes returns the target element type.
func (c *Cast) Attributes() []onnx.AttributeProto {
	return []onnx.AttributeProto{intAttr("to", int64(c.to))}
}

// CumSum computes the running sum along one axis, carried as a
// single-element int64 constant input. The shape is unchanged.
type CumSum struct{ single }

// NewCumSum creates a CumSum operation. The axis may be negative.
func NewCumSum(name string, x graph.Value, axis *Constant) (*CumSum, error) {
	axes, err := axis.Int64Values()
	if err != nil {
		return nil, err
	}
	if len(axes) != 1 {
		return nil, fmt.Errorf("%w: CumSum axis input must hold one element, got %d", graph.ErrInvalidInput, len(axes))
	}
	if _, err := normalizeAxes(axes, int64(x.Shape().Rank())); err != nil {
		return nil, err
	}

	op := &CumSum{}
	op.init(op, name, []graph.Value{x, axis}, x.DType(), x.Shape())
	return op, nil
}

// OpType returns "CumSum".
func (*CumSum) OpType() string { return "CumSum" }
