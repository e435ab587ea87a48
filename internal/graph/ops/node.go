package ops

import (
	"fmt"

	"github.com/born-ml/onnxkit/internal/graph"
	"github.com/born-ml/onnxkit/internal/onnx"
)

// opValue is an Operation that is itself its single output Value.
type opValue interface {
	graph.Operation
	graph.Value
}

// base holds the fields shared by every catalog operation.
type base struct {
	graph.Ident
	name   string
	inputs []graph.Value
}

// Name returns the caller-requested operation name, or "".
func (b *base) Name() string { return b.name }

// Inputs returns the ordered input values.
func (b *base) Inputs() []graph.Value { return b.inputs }

// Domain returns ""; all catalog operators live in the default ONNX domain.
func (b *base) Domain() string { return "" }

// Attributes returns nil; operators with attributes override this.
func (b *base) Attributes() []onnx.AttributeProto { return nil }

// single is the base for operations producing exactly one result. The
// operation doubles as that result: it implements graph.Value alongside
// graph.Operation, so constructors can hand the operation itself to
// downstream consumers.
type single struct {
	base
	self  opValue
	dtype graph.DataType
	shape graph.Shape
}

// init wires the embedded bases. self must be the outermost concrete
// operation so traversal and Outputs see the full type.
func (s *single) init(self opValue, name string, inputs []graph.Value, dtype graph.DataType, shape graph.Shape) {
	s.Ident = graph.NewIdent()
	s.self = self
	s.name = name
	s.inputs = inputs
	s.dtype = dtype
	s.shape = shape
}

// initBinary wires an elementwise binary operation: operands must share a
// dtype and have broadcast-compatible shapes.
func (s *single) initBinary(self opValue, name string, a, b graph.Value) error {
	if a.DType() != b.DType() {
		return fmt.Errorf("%w: %s != %s", graph.ErrDTypeMismatch, a.DType(), b.DType())
	}
	shape, err := graph.Broadcast(a.Shape(), b.Shape())
	if err != nil {
		return err
	}
	s.init(self, name, []graph.Value{a, b}, a.DType(), shape)
	return nil
}

// DType returns the element type of the operation's result.
func (s *single) DType() graph.DataType { return s.dtype }

// Shape returns the shape of the operation's result.
func (s *single) Shape() graph.Shape { return s.shape }

// Outputs returns the operation itself as its only output value.
func (s *single) Outputs() []graph.Value { return []graph.Value{s.self} }

// CollectOps adds this operation and its transitive dependencies to set.
func (s *single) CollectOps(set *graph.OpSet) { graph.VisitOps(s.self, set) }

// CollectValues adds the values behind this operation's producer chain to set.
func (s *single) CollectValues(set *graph.ValueSet) { graph.VisitValues(s.self, set) }

// Attribute constructors for the encodings the catalog uses.

func intAttr(name string, v int64) onnx.AttributeProto {
	return onnx.AttributeProto{Name: name, Type: onnx.AttributeProtoInt, I: v}
}

func floatAttr(name string, v float32) onnx.AttributeProto {
	return onnx.AttributeProto{Name: name, Type: onnx.AttributeProtoFloat, F: v}
}

func intsAttr(name string, vs []int64) onnx.AttributeProto {
	return onnx.AttributeProto{Name: name, Type: onnx.AttributeProtoInts, Ints: vs}
}
