// Package layers builds common neural-network layer patterns on top of the
// ops catalog, pulling weights from an export.Store scoped to the layer's
// name prefix.
//
// # Example Usage
//
//	store := export.NewStore()
//	store.AddFloat32("mlp.fc.weight", w, graph.ShapeOf(8, 4))
//	store.AddFloat32("mlp.fc.bias", b, graph.ShapeOf(8))
//
//	h, err := layers.Linear(store.Prefix("mlp").Prefix("fc"), x)
package layers

import (
	"github.com/born-ml/onnxkit/export"
	"github.com/born-ml/onnxkit/graph"
	"github.com/born-ml/onnxkit/internal/layers"
)

// Linear applies y = x W^T + b using the store's "weight" tensor and, when
// present, its "bias" tensor.
func Linear(store *export.Store, x graph.Value) (graph.Value, error) {
	return layers.Linear(store, x)
}

// LayerNorm applies layer normalization over the last axis using the
// store's "weight" and optional "bias" tensors.
func LayerNorm(store *export.Store, x graph.Value, epsilon float32) (graph.Value, error) {
	return layers.LayerNorm(store, x, epsilon)
}

// RMSNorm applies RMS normalization over the last axis using the store's
// "weight" tensor.
func RMSNorm(store *export.Store, x graph.Value, epsilon float32) (graph.Value, error) {
	return layers.RMSNorm(store, x, epsilon)
}

// GroupNorm applies group normalization over numGroups channel groups using
// the store's "weight" and "bias" tensors.
func GroupNorm(store *export.Store, x graph.Value, epsilon float32, numGroups int64) (graph.Value, error) {
	return layers.GroupNorm(store, x, epsilon, numGroups)
}

// SiLU applies x * sigmoid(x).
func SiLU(x graph.Value) (graph.Value, error) {
	return layers.SiLU(x)
}

// SwiGLU applies the gated SiLU feed-forward pattern using the store's
// "linear_inner" and "linear_outer" sublayers.
func SwiGLU(store *export.Store, x graph.Value) (graph.Value, error) {
	return layers.SwiGLU(store, x)
}

// Reshape reinterprets x under the given fixed dimensions.
func Reshape(x graph.Value, dims []int64) (graph.Value, error) {
	return layers.Reshape(x, dims)
}

// Unsqueeze inserts a size-1 axis at the given position.
func Unsqueeze(x graph.Value, axis int64) (graph.Value, error) {
	return layers.Unsqueeze(x, axis)
}

// Squeeze removes the size-1 axis at the given position.
func Squeeze(x graph.Value, axis int64) (graph.Value, error) {
	return layers.Squeeze(x, axis)
}

// Slice keeps the [start, end) range along each leading axis of x.
func Slice(x graph.Value, start, end []int64) (graph.Value, error) {
	return layers.Slice(x, start, end)
}

// Expand broadcasts x to dims.
func Expand(x graph.Value, dims []int64) (graph.Value, error) {
	return layers.Expand(x, dims)
}

// CumSum computes the running sum of x along axis.
func CumSum(x graph.Value, axis int64) (graph.Value, error) {
	return layers.CumSum(x, axis)
}

// Transpose swaps the trailing two axes of x.
func Transpose(x graph.Value) (graph.Value, error) {
	return layers.Transpose(x)
}

// Cast converts x to dtype, passing x through unchanged when the dtype
// already matches.
func Cast(x graph.Value, dtype graph.DataType) (graph.Value, error) {
	return layers.Cast(x, dtype)
}

// DivScalar divides x elementwise by a scalar constant.
func DivScalar(x graph.Value, scalar float32) (graph.Value, error) {
	return layers.DivScalar(x, scalar)
}
