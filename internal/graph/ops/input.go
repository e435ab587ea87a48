package ops

import "github.com/born-ml/onnxkit/internal/graph"

// Input is a declared graph input: a leaf Value with no producing operation
// and no payload. Its data arrives at inference time.
type Input struct {
	graph.Ident
	name  string
	dtype graph.DataType
	shape graph.Shape
}

// NewInput declares a graph input. Symbolic dimensions are allowed; a batch
// dimension is typically graph.SymbolicDim("batch").
func NewInput(name string, dtype graph.DataType, shape graph.Shape) *Input {
	return &Input{Ident: graph.NewIdent(), name: name, dtype: dtype, shape: shape}
}

// DType returns the declared element type.
func (in *Input) DType() graph.DataType { return in.dtype }

// Shape returns the declared shape.
func (in *Input) Shape() graph.Shape { return in.shape }

// Name returns the declared input name.
func (in *Input) Name() string { return in.name }

// CollectOps is a no-op: inputs have no producer.
func (in *Input) CollectOps(*graph.OpSet) {}

// CollectValues is a no-op: inputs have no producer.
func (in *Input) CollectValues(*graph.ValueSet) {}
