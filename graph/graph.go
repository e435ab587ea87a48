// Package graph is the public surface for building computation graphs.
//
// It re-exports the graph contracts from the internal implementation:
// Values (tensor-shaped quantities), Operations (computation steps), and the
// shape/dtype vocabulary they share. Concrete operations live in the ops
// package; export lives in the export package.
//
// Example:
//
//	x := ops.NewInput("x", graph.Float32, graph.Shape{
//	    graph.SymbolicDim("batch"), graph.FixedDim(4),
//	})
package graph

import "github.com/born-ml/onnxkit/internal/graph"

// Value represents one tensor-shaped quantity in the graph. Two Values are
// the same value only when they are the same object; structurally equal
// values built independently stay distinct.
type Value = graph.Value

// ConstValue is a Value owning a constant payload, gathered by the weight
// strategy at export time.
type ConstValue = graph.ConstValue

// Operation represents one computation step consuming and producing Values.
type Operation = graph.Operation

// MultiOutput is an Operation with more than one result, consumed through
// per-slot Values.
type MultiOutput = graph.MultiOutput

// Slot projects one result of a MultiOutput operation as a Value.
type Slot = graph.Slot

// DataType represents the element type of a Value.
type DataType = graph.DataType

// Supported element types.
const (
	Float32  = graph.Float32
	Float64  = graph.Float64
	Float16  = graph.Float16
	BFloat16 = graph.BFloat16
	Int8     = graph.Int8
	Int16    = graph.Int16
	Int32    = graph.Int32
	Int64    = graph.Int64
	Uint8    = graph.Uint8
	Uint16   = graph.Uint16
	Uint32   = graph.Uint32
	Uint64   = graph.Uint64
	Bool     = graph.Bool
)

// Shape represents the ordered dimensions of a tensor.
type Shape = graph.Shape

// Dim is a single dimension: fixed, symbolic, or unresolved.
type Dim = graph.Dim

// ValueSet is an identity-keyed, insertion-ordered set of Values.
type ValueSet = graph.ValueSet

// OpSet is an identity-keyed, insertion-ordered set of Operations.
type OpSet = graph.OpSet

// Errors surfaced during graph construction and export.
var (
	ErrShapeMismatch       = graph.ErrShapeMismatch
	ErrIncompatibleShape   = graph.ErrIncompatibleShape
	ErrDTypeMismatch       = graph.ErrDTypeMismatch
	ErrUnresolvedDimension = graph.ErrUnresolvedDimension
	ErrUnsupportedDType    = graph.ErrUnsupportedDType
	ErrInvalidInput        = graph.ErrInvalidInput
)

// FixedDim returns a dimension with a known size.
func FixedDim(n int64) Dim { return graph.FixedDim(n) }

// SymbolicDim returns a dimension identified by a symbolic name.
func SymbolicDim(name string) Dim { return graph.SymbolicDim(name) }

// UnresolvedDim returns a dimension with no size information.
func UnresolvedDim() Dim { return graph.UnresolvedDim() }

// ShapeOf builds a fully fixed shape from dimension sizes.
func ShapeOf(dims ...int64) Shape { return graph.ShapeOf(dims...) }

// Broadcast applies NumPy-style broadcasting to two shapes.
func Broadcast(a, b Shape) (Shape, error) { return graph.Broadcast(a, b) }

// NewValueSet returns an empty ValueSet.
func NewValueSet() *ValueSet { return graph.NewValueSet() }

// NewOpSet returns an empty OpSet.
func NewOpSet() *OpSet { return graph.NewOpSet() }
