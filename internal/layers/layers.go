// Package layers composes the operator catalog into common neural-network
// layer patterns: the graph-building counterparts of a framework's nn
// modules. Each builder pulls its weights from a Store view and names the
// operations it creates after the view's scope, so the exported graph reads
// like the checkpoint it came from.
package layers

import (
	"github.com/born-ml/onnxkit/internal/graph"
	"github.com/born-ml/onnxkit/internal/graph/ops"
	"github.com/born-ml/onnxkit/internal/weights"
)

// Linear applies a fully connected layer: x @ W.T + b.
//
// The weight is expected under "weight" with shape [out_features,
// in_features] and an optional bias under "bias" with shape [out_features].
// The input is unsqueezed to a trailing unit axis so the stored weight can
// be used without transposition, then squeezed back.
func Linear(store *weights.Store, x graph.Value) (graph.Value, error) {
	weight, err := store.Tensor("weight")
	if err != nil {
		return nil, err
	}

	extraAxis := int64(x.Shape().Rank())
	unsqueezed, err := Unsqueeze(x, extraAxis)
	if err != nil {
		return nil, err
	}
	matOut, err := ops.NewMatMul(store.Scope(), weight, unsqueezed)
	if err != nil {
		return nil, err
	}
	out, err := Squeeze(matOut, extraAxis)
	if err != nil {
		return nil, err
	}

	if !store.Has("bias") {
		return out, nil
	}
	bias, err := store.Tensor("bias")
	if err != nil {
		return nil, err
	}
	return ops.NewAdd(store.Name("bias_add"), out, bias)
}

// LayerNorm applies layer normalization over the last dimension with the
// view's "weight" scale and optional "bias".
func LayerNorm(store *weights.Store, x graph.Value, epsilon float32) (graph.Value, error) {
	scale, err := store.Tensor("weight")
	if err != nil {
		return nil, err
	}
	var bias graph.Value
	if store.Has("bias") {
		b, err := store.Tensor("bias")
		if err != nil {
			return nil, err
		}
		bias = b
	}
	return ops.NewLayerNorm(store.Scope(), x, scale, bias, -1, epsilon)
}

// RMSNorm applies root-mean-square normalization over the last dimension
// with the view's "weight" scale.
func RMSNorm(store *weights.Store, x graph.Value, epsilon float32) (graph.Value, error) {
	scale, err := store.Tensor("weight")
	if err != nil {
		return nil, err
	}
	return ops.NewRMSNorm(store.Scope(), x, scale, -1, epsilon)
}

// GroupNorm applies group normalization over numGroups channel groups with
// the view's "weight" scale and "bias".
func GroupNorm(store *weights.Store, x graph.Value, epsilon float32, numGroups int64) (graph.Value, error) {
	scale, err := store.Tensor("weight")
	if err != nil {
		return nil, err
	}
	bias, err := store.Tensor("bias")
	if err != nil {
		return nil, err
	}
	return ops.NewGroupNorm(store.Scope(), x, scale, bias, numGroups, epsilon)
}

// SiLU applies x * sigmoid(x).
func SiLU(x graph.Value) (graph.Value, error) {
	return ops.NewMul("", x, ops.NewSigmoid("", x))
}

// SwiGLU applies the gated feed-forward pattern:
// linear_outer(x) * SiLU(linear_inner(x)).
func SwiGLU(store *weights.Store, x graph.Value) (graph.Value, error) {
	inner, err := Linear(store.Prefix("linear_inner"), x)
	if err != nil {
		return nil, err
	}
	gated, err := SiLU(inner)
	if err != nil {
		return nil, err
	}
	outer, err := Linear(store.Prefix("linear_outer"), x)
	if err != nil {
		return nil, err
	}
	return ops.NewMul("", gated, outer)
}

// Reshape reshapes x to dims, with ONNX 0/-1 semantics.
func Reshape(x graph.Value, dims []int64) (graph.Value, error) {
	c, err := ops.Int64Vector("", dims)
	if err != nil {
		return nil, err
	}
	return ops.NewReshape("", x, c)
}

// Unsqueeze inserts a unit dimension at axis.
func Unsqueeze(x graph.Value, axis int64) (graph.Value, error) {
	c, err := ops.Int64Vector("", []int64{axis})
	if err != nil {
		return nil, err
	}
	return ops.NewUnsqueeze("", x, c)
}

// Squeeze removes the unit dimension at axis.
func Squeeze(x graph.Value, axis int64) (graph.Value, error) {
	c, err := ops.Int64Vector("", []int64{axis})
	if err != nil {
		return nil, err
	}
	return ops.NewSqueeze("", x, c)
}

// Slice keeps the [start, end) range along each leading axis. Axes beyond
// the range vectors pass through whole.
func Slice(x graph.Value, start, end []int64) (graph.Value, error) {
	s, err := ops.Int64Vector("", start)
	if err != nil {
		return nil, err
	}
	e, err := ops.Int64Vector("", end)
	if err != nil {
		return nil, err
	}
	return ops.NewSlice("", x, s, e)
}

// Expand broadcasts x to dims.
func Expand(x graph.Value, dims []int64) (graph.Value, error) {
	c, err := ops.Int64Vector("", dims)
	if err != nil {
		return nil, err
	}
	return ops.NewExpand("", x, c)
}

// CumSum computes the running sum of x along axis.
func CumSum(x graph.Value, axis int64) (graph.Value, error) {
	c, err := ops.Int64Vector("", []int64{axis})
	if err != nil {
		return nil, err
	}
	return ops.NewCumSum("", x, c)
}

// Transpose swaps the two trailing dimensions.
func Transpose(x graph.Value) (graph.Value, error) {
	rank := int64(x.Shape().Rank())
	if rank < 2 {
		return ops.NewTranspose("", x, nil)
	}
	perm := make([]int64, rank)
	for i := range perm {
		perm[i] = int64(i)
	}
	perm[rank-2], perm[rank-1] = perm[rank-1], perm[rank-2]
	return ops.NewTranspose("", x, perm)
}

// Cast converts x to dtype, passing x through unchanged when it already has
// that type.
func Cast(x graph.Value, dtype graph.DataType) (graph.Value, error) {
	if x.DType() == dtype {
		return x, nil
	}
	return ops.NewCast("", x, dtype)
}

// DivScalar divides x elementwise by a broadcast scalar constant.
func DivScalar(x graph.Value, scalar float32) (graph.Value, error) {
	c, err := ops.ScalarFloat32("", scalar)
	if err != nil {
		return nil, err
	}
	return ops.NewDiv("", x, c)
}
