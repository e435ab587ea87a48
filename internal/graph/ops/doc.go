// Package ops provides the concrete operator catalog for graph construction.
//
// Every operation validates its input shapes and dtypes at construction and
// derives its output shape, so a successfully built graph is structurally
// sound before export ever runs. Single-output operations double as their own
// output Value, mirroring how they are consumed: the result of NewMatMul is
// passed directly as an input to the next operation. Multi-output operations
// (Split) expose their results through graph.Slot projections instead.
//
// The catalog covers the operators the layer builders need plus the leaves
// every graph starts from:
//   - Leaves: Input (declared graph input), Constant (payload-carrying)
//   - Elementwise: Add, Sub, Mul, Div, Sigmoid, Cast
//   - Matrix: MatMul
//   - Shape: Reshape, Transpose, Unsqueeze, Squeeze
//   - Normalization: LayerNormalization, RMSNormalization
//   - Multi-output: Split
package ops
