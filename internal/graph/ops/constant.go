package ops

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/born-ml/onnxkit/internal/graph"
)

// Constant is a leaf Value owning a constant payload. The payload is routed
// through the active weight externalization strategy at export time; until
// then it is owned by the value.
type Constant struct {
	graph.Ident
	name  string
	dtype graph.DataType
	shape graph.Shape
	data  []byte
}

// NewConstant creates a constant from raw little-endian element bytes. The
// shape must be fully fixed and the payload length must match it exactly.
func NewConstant(name string, dtype graph.DataType, shape graph.Shape, data []byte) (*Constant, error) {
	n, err := shape.NumElements()
	if err != nil {
		return nil, err
	}
	want := n * int64(dtype.Size())
	if int64(len(data)) != want {
		return nil, fmt.Errorf("%w: payload is %d bytes, %s %s needs %d",
			graph.ErrShapeMismatch, len(data), dtype, shape, want)
	}
	return &Constant{Ident: graph.NewIdent(), name: name, dtype: dtype, shape: shape, data: data}, nil
}

// Float32s creates a float32 constant.
func Float32s(name string, values []float32, shape graph.Shape) (*Constant, error) {
	data := make([]byte, 0, len(values)*4)
	for _, v := range values {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v))
	}
	return NewConstant(name, graph.Float32, shape, data)
}

// Int64s creates an int64 constant.
func Int64s(name string, values []int64, shape graph.Shape) (*Constant, error) {
	data := make([]byte, 0, len(values)*8)
	for _, v := range values {
		data = binary.LittleEndian.AppendUint64(data, uint64(v)) //nolint:gosec // G115: Two's-complement round-trip.
	}
	return NewConstant(name, graph.Int64, shape, data)
}

// Int64Vector creates a rank-1 int64 constant, the form shape-carrying
// operator inputs (Reshape, Unsqueeze, Squeeze) expect.
func Int64Vector(name string, values []int64) (*Constant, error) {
	return Int64s(name, values, graph.ShapeOf(int64(len(values))))
}

// ScalarFloat32 creates a single-element float32 constant of shape [1].
func ScalarFloat32(name string, v float32) (*Constant, error) {
	return Float32s(name, []float32{v}, graph.ShapeOf(1))
}

// DType returns the element type of the constant.
func (c *Constant) DType() graph.DataType { return c.dtype }

// Shape returns the constant's shape, always fully fixed.
func (c *Constant) Shape() graph.Shape { return c.shape }

// Name returns the caller-requested name, or "".
func (c *Constant) Name() string { return c.name }

// Payload returns the raw element bytes. The slice is owned by the constant.
func (c *Constant) Payload() []byte { return c.data }

// Int64Values decodes the payload as int64 elements. It returns
// ErrDTypeMismatch for constants of any other type.
func (c *Constant) Int64Values() ([]int64, error) {
	if c.dtype != graph.Int64 {
		return nil, fmt.Errorf("%w: expected int64 constant, got %s", graph.ErrDTypeMismatch, c.dtype)
	}
	values := make([]int64, len(c.data)/8)
	for i := range values {
		values[i] = int64(binary.LittleEndian.Uint64(c.data[i*8:])) //nolint:gosec // G115: Two's-complement round-trip.
	}
	return values, nil
}

// CollectOps is a no-op: constants have no producer.
func (c *Constant) CollectOps(*graph.OpSet) {}

// CollectValues is a no-op: constants have no producer.
func (c *Constant) CollectValues(*graph.ValueSet) {}

var _ graph.ConstValue = (*Constant)(nil)
