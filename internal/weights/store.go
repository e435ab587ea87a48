package weights

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/born-ml/onnxkit/internal/graph"
	"github.com/born-ml/onnxkit/internal/graph/ops"
)

// ErrNoSuchTensor is returned when a Store lookup misses.
var ErrNoSuchTensor = errors.New("no such tensor")

// Entry is one named weight: raw little-endian bytes plus type information.
type Entry struct {
	Data  []byte
	DType graph.DataType
	Shape graph.Shape
}

// Store is an in-memory named weight source. Lookups are scoped by a dotted
// prefix so layer builders can be handed a sub-view:
//
//	linear := store.Prefix("blocks.0.attn")
//	w, err := linear.Tensor("weight") // resolves "blocks.0.attn.weight"
//
// Prefixed views share the underlying entries; Store is cheap to copy around
// and safe for concurrent reads once populated.
type Store struct {
	prefix  string
	entries map[string]Entry
}

// NewStore returns an empty weight store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Prefix returns a view of the store scoped under p. Nested calls chain with
// dots: store.Prefix("a").Prefix("b") resolves names under "a.b.".
func (s *Store) Prefix(p string) *Store {
	return &Store{prefix: s.resolve(p), entries: s.entries}
}

// Scope returns the view's dotted prefix, "" for the root view.
func (s *Store) Scope() string {
	return s.prefix
}

// Name returns the full dotted name for a relative name under this view.
func (s *Store) Name(name string) string {
	return s.resolve(name)
}

func (s *Store) resolve(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "." + name
}

// Add registers raw bytes under the view's scope.
func (s *Store) Add(name string, dtype graph.DataType, shape graph.Shape, data []byte) {
	s.entries[s.resolve(name)] = Entry{Data: data, DType: dtype, Shape: shape}
}

// AddFloat32 registers float32 weights.
func (s *Store) AddFloat32(name string, values []float32, shape graph.Shape) {
	data := make([]byte, 0, len(values)*4)
	for _, v := range values {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v))
	}
	s.Add(name, graph.Float32, shape, data)
}

// AddFloat16 registers float32 values converted to IEEE 754 half precision.
func (s *Store) AddFloat16(name string, values []float32, shape graph.Shape) {
	data := make([]byte, 0, len(values)*2)
	for _, v := range values {
		data = binary.LittleEndian.AppendUint16(data, float16.Fromfloat32(v).Bits())
	}
	s.Add(name, graph.Float16, shape, data)
}

// AddBFloat16 registers float32 values truncated to bfloat16 (the top 16
// bits of the float32 representation, rounded to nearest even).
func (s *Store) AddBFloat16(name string, values []float32, shape graph.Shape) {
	data := make([]byte, 0, len(values)*2)
	for _, v := range values {
		bits := math.Float32bits(v)
		// Round to nearest even before truncating the mantissa.
		bits += 0x7fff + (bits >> 16 & 1)
		data = binary.LittleEndian.AppendUint16(data, uint16(bits>>16)) //nolint:gosec // G115: High half extraction.
	}
	s.Add(name, graph.BFloat16, shape, data)
}

// Get returns the entry for a relative name under the view's scope.
func (s *Store) Get(name string) (Entry, error) {
	full := s.resolve(name)
	e, ok := s.entries[full]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrNoSuchTensor, full)
	}
	return e, nil
}

// Has reports whether a relative name is present.
func (s *Store) Has(name string) bool {
	_, ok := s.entries[s.resolve(name)]
	return ok
}

// Tensor builds a constant graph value for a relative name. The constant's
// explicit name is the full dotted name, so exported initializers keep the
// checkpoint naming.
func (s *Store) Tensor(name string) (*ops.Constant, error) {
	e, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	return ops.NewConstant(s.resolve(name), e.DType, e.Shape, e.Data)
}

// Len returns the number of entries in the underlying store, ignoring the
// view's prefix.
func (s *Store) Len() int { return len(s.entries) }
