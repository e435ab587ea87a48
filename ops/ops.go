// Package ops is the public catalog of graph operations.
//
// Every constructor validates its operands eagerly (dtype agreement, shape
// compatibility) so a graph that builds without error also exports without
// shape surprises. Single-output operations are returned as Values and feed
// directly into further operations; Split returns per-slot Values through
// Output.
package ops

import (
	"github.com/born-ml/onnxkit/graph"
	"github.com/born-ml/onnxkit/internal/graph/ops"
)

// Input is a named graph input with a declared dtype and shape.
type Input = ops.Input

// Constant is a leaf Value owning a constant payload.
type Constant = ops.Constant

// Add is elementwise addition with broadcasting.
type Add = ops.Add

// Sub is elementwise subtraction with broadcasting.
type Sub = ops.Sub

// Mul is elementwise multiplication with broadcasting.
type Mul = ops.Mul

// Div is elementwise division with broadcasting.
type Div = ops.Div

// Sigmoid is the elementwise logistic function.
type Sigmoid = ops.Sigmoid

// MatMul is batched matrix multiplication.
type MatMul = ops.MatMul

// Cast converts a Value to another element type.
type Cast = ops.Cast

// Reshape reinterprets a Value under a new shape.
type Reshape = ops.Reshape

// Transpose permutes the axes of a Value.
type Transpose = ops.Transpose

// Unsqueeze inserts size-1 axes.
type Unsqueeze = ops.Unsqueeze

// Squeeze removes size-1 axes.
type Squeeze = ops.Squeeze

// Slice extracts a contiguous range along the leading axes.
type Slice = ops.Slice

// Expand broadcasts a Value to a larger compatible shape.
type Expand = ops.Expand

// CumSum computes the running sum along one axis.
type CumSum = ops.CumSum

// LayerNorm is layer normalization over trailing axes.
type LayerNorm = ops.LayerNorm

// GroupNorm is group normalization over channel groups.
type GroupNorm = ops.GroupNorm

// RMSNorm is root-mean-square normalization over trailing axes.
type RMSNorm = ops.RMSNorm

// Split divides a Value into equal parts along one axis.
type Split = ops.Split

// NewInput declares a graph input.
func NewInput(name string, dtype graph.DataType, shape graph.Shape) *Input {
	return ops.NewInput(name, dtype, shape)
}

// NewConstant builds a constant from raw little-endian bytes. The payload
// length must match the fully fixed shape.
func NewConstant(name string, dtype graph.DataType, shape graph.Shape, data []byte) (*Constant, error) {
	return ops.NewConstant(name, dtype, shape, data)
}

// Float32s builds a float32 constant from a slice of values.
func Float32s(name string, values []float32, shape graph.Shape) (*Constant, error) {
	return ops.Float32s(name, values, shape)
}

// Int64s builds an int64 constant from a slice of values.
func Int64s(name string, values []int64, shape graph.Shape) (*Constant, error) {
	return ops.Int64s(name, values, shape)
}

// Int64Vector builds a rank-1 int64 constant, as consumed by Reshape,
// Squeeze, and Unsqueeze.
func Int64Vector(name string, values []int64) (*Constant, error) {
	return ops.Int64Vector(name, values)
}

// ScalarFloat32 builds a scalar float32 constant.
func ScalarFloat32(name string, v float32) (*Constant, error) {
	return ops.ScalarFloat32(name, v)
}

// NewAdd returns a + b with broadcasting.
func NewAdd(name string, a, b graph.Value) (*Add, error) { return ops.NewAdd(name, a, b) }

// NewSub returns a - b with broadcasting.
func NewSub(name string, a, b graph.Value) (*Sub, error) { return ops.NewSub(name, a, b) }

// NewMul returns a * b with broadcasting.
func NewMul(name string, a, b graph.Value) (*Mul, error) { return ops.NewMul(name, a, b) }

// NewDiv returns a / b with broadcasting.
func NewDiv(name string, a, b graph.Value) (*Div, error) { return ops.NewDiv(name, a, b) }

// NewSigmoid returns sigmoid(x).
func NewSigmoid(name string, x graph.Value) *Sigmoid { return ops.NewSigmoid(name, x) }

// NewMatMul returns the batched matrix product of a and b.
func NewMatMul(name string, a, b graph.Value) (*MatMul, error) { return ops.NewMatMul(name, a, b) }

// NewCast converts x to the given element type.
func NewCast(name string, x graph.Value, to graph.DataType) (*Cast, error) {
	return ops.NewCast(name, x, to)
}

// NewReshape reinterprets x under the shape held by the int64 constant.
// A 0 entry copies the matching input dimension; a single -1 entry is
// inferred from the element count.
func NewReshape(name string, x graph.Value, shape *Constant) (*Reshape, error) {
	return ops.NewReshape(name, x, shape)
}

// NewTranspose permutes the axes of x. A nil perm reverses them.
func NewTranspose(name string, x graph.Value, perm []int64) (*Transpose, error) {
	return ops.NewTranspose(name, x, perm)
}

// NewUnsqueeze inserts size-1 axes at the positions held by the axes constant.
func NewUnsqueeze(name string, x graph.Value, axes *Constant) (*Unsqueeze, error) {
	return ops.NewUnsqueeze(name, x, axes)
}

// NewSqueeze removes the size-1 axes named by the axes constant.
func NewSqueeze(name string, x graph.Value, axes *Constant) (*Squeeze, error) {
	return ops.NewSqueeze(name, x, axes)
}

// NewSlice keeps the [start, end) range along each leading axis, with the
// bounds held by rank-1 int64 constants of equal length.
func NewSlice(name string, x graph.Value, starts, ends *Constant) (*Slice, error) {
	return ops.NewSlice(name, x, starts, ends)
}

// NewExpand broadcasts x to the shape held by the int64 constant.
func NewExpand(name string, x graph.Value, shape *Constant) (*Expand, error) {
	return ops.NewExpand(name, x, shape)
}

// NewCumSum computes the running sum of x along the axis held by the
// single-element int64 constant.
func NewCumSum(name string, x graph.Value, axis *Constant) (*CumSum, error) {
	return ops.NewCumSum(name, x, axis)
}

// NewLayerNorm normalizes x over the trailing axes starting at axis, then
// scales and optionally shifts it. Pass a nil bias to skip the shift.
func NewLayerNorm(name string, x, scale, bias graph.Value, axis int64, epsilon float32) (*LayerNorm, error) {
	return ops.NewLayerNorm(name, x, scale, bias, axis, epsilon)
}

// NewRMSNorm normalizes x by its root mean square over the trailing axes
// starting at axis, then scales it.
func NewRMSNorm(name string, x, scale graph.Value, axis int64, epsilon float32) (*RMSNorm, error) {
	return ops.NewRMSNorm(name, x, scale, axis, epsilon)
}

// NewGroupNorm normalizes x over numGroups groups of channels (axis 1),
// then applies a per-channel scale and bias.
func NewGroupNorm(name string, x, scale, bias graph.Value, numGroups int64, epsilon float32) (*GroupNorm, error) {
	return ops.NewGroupNorm(name, x, scale, bias, numGroups, epsilon)
}

// NewSplit divides x into parts equal chunks along axis. Consume the results
// through Output; unconsumed results are omitted from the exported model.
func NewSplit(name string, x graph.Value, axis int64, parts int) (*Split, error) {
	return ops.NewSplit(name, x, axis, parts)
}
