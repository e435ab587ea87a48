package graph

import "github.com/born-ml/onnxkit/internal/onnx"

// Value represents one tensor-shaped quantity in the graph.
//
// A Value may be produced by an Operation (directly, or as one slot of a
// multi-output Operation), or be a leaf (a declared input or a constant).
// Equality is by identity token, never by structure: see the package
// documentation.
type Value interface {
	// ID returns the identity token assigned at construction.
	ID() uint64

	// DType returns the element type of the value.
	DType() DataType

	// Shape returns the (possibly partially symbolic) shape of the value.
	Shape() Shape

	// Name returns the caller-requested name, or "" if unnamed.
	Name() string

	// CollectOps adds every Operation this value transitively depends on to
	// set, each exactly once. Leaves add nothing.
	CollectOps(set *OpSet)

	// CollectValues adds every Value reachable through this value's producer
	// chain to set, each exactly once. The receiver itself is not added.
	CollectValues(set *ValueSet)
}

// ConstValue is implemented by leaf Values that own a constant payload.
// The payload is consumed during weight gathering by the active
// externalization strategy.
type ConstValue interface {
	Value

	// Payload returns the raw little-endian element bytes. The slice is owned
	// by the value and must not be modified.
	Payload() []byte
}

// Operation represents one computation step consuming and producing Values.
type Operation interface {
	// ID returns the identity token assigned at construction.
	ID() uint64

	// Name returns the caller-requested name, or "" for an anonymous
	// operation (the ONNX format permits empty node names).
	Name() string

	// OpType returns the ONNX operator code, e.g. "MatMul".
	OpType() string

	// Domain returns the operator domain, "" for the default ONNX domain.
	Domain() string

	// Inputs returns the ordered input Values.
	Inputs() []Value

	// Outputs returns the ordered output Values.
	Outputs() []Value

	// Attributes returns the encoded operator attributes.
	Attributes() []onnx.AttributeProto
}

// MultiOutput is implemented by Operations producing more than one result.
// Individual results are projected through Slot values that derive their
// dtype and shape from these per-slot accessors.
type MultiOutput interface {
	Operation

	// NumOutputs returns the number of result slots.
	NumOutputs() int

	// OutputDType returns the element type of slot i.
	OutputDType(i int) DataType

	// OutputShape returns the shape of slot i.
	OutputShape(i int) Shape
}

// VisitOps records op and its transitive dependencies in set, memoized by
// identity: an operation already present is not re-expanded, so cost is
// bounded by distinct objects plus edges regardless of fan-in.
func VisitOps(op Operation, set *OpSet) {
	if set.Contains(op) {
		return
	}
	for _, in := range op.Inputs() {
		in.CollectOps(set)
	}
	set.Add(op)
}

// VisitValues records op's inputs and everything reachable behind them in
// set, with the same identity memoization as VisitOps.
func VisitValues(op Operation, set *ValueSet) {
	for _, in := range op.Inputs() {
		if set.Add(in) {
			in.CollectValues(set)
		}
	}
}
