package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/onnxkit/internal/graph"
	"github.com/born-ml/onnxkit/internal/graph/ops"
	"github.com/born-ml/onnxkit/internal/onnx"
	"github.com/born-ml/onnxkit/internal/weights"
)

// buildChain returns x -> Sigmoid -> Mul(x, sig), a graph with one declared
// input, one intermediate, and a diamond on x.
func buildChain(t *testing.T) (x graph.Value, y graph.Value) {
	t.Helper()
	in := ops.NewInput("x", graph.Float32, graph.ShapeOf(2))
	sig := ops.NewSigmoid("", in)
	mul, err := ops.NewMul("", in, sig)
	require.NoError(t, err)
	return in, mul
}

func TestAssembleMinimal(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2))
	sig := ops.NewSigmoid("", x)

	model, err := Assemble(
		[]graph.Value{x},
		[]NamedValue{{Name: "y", Value: sig}},
		weights.NewDiscard(),
		nil,
	)
	require.NoError(t, err)

	g := model.Graph
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "Sigmoid", g.Nodes[0].OpType)
	assert.Equal(t, []string{"x"}, g.Nodes[0].Inputs)
	assert.Equal(t, []string{"y"}, g.Nodes[0].Outputs)

	require.Len(t, g.Inputs, 1)
	assert.Equal(t, "x", g.Inputs[0].Name)
	require.Len(t, g.Outputs, 1)
	assert.Equal(t, "y", g.Outputs[0].Name)
	assert.Empty(t, g.Initializers)
	assert.Empty(t, g.ValueInfo)
}

func TestAssembleDefaults(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(1))
	model, err := Assemble([]graph.Value{x}, []NamedValue{{Name: "y", Value: x}}, weights.NewDiscard(), nil)
	require.NoError(t, err)

	assert.Equal(t, int64(DefaultIRVersion), model.IRVersion)
	assert.Equal(t, "onnxkit", model.ProducerName)
	require.Len(t, model.OpsetImport, 1)
	assert.Equal(t, "", model.OpsetImport[0].Domain)
	assert.Equal(t, int64(DefaultOpsetVersion), model.OpsetImport[0].Version)
}

func TestAssembleOptions(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(1))
	opts := &Options{
		GraphName:       "main",
		DocString:       "test model",
		ProducerName:    "other",
		ProducerVersion: "9.9",
		IRVersion:       9,
		OpsetImports:    []onnx.OperatorSetID{{Domain: "", Version: 18}, {Domain: "com.microsoft", Version: 1}},
	}

	model, err := Assemble([]graph.Value{x}, []NamedValue{{Name: "y", Value: x}}, weights.NewDiscard(), opts)
	require.NoError(t, err)

	assert.Equal(t, "main", model.Graph.Name)
	assert.Equal(t, "test model", model.DocString)
	assert.Equal(t, "other", model.ProducerName)
	assert.Equal(t, "9.9", model.ProducerVersion)
	assert.Equal(t, int64(9), model.IRVersion)
	assert.Len(t, model.OpsetImport, 2)
}

// TestAssembleSuppressedOpsets verifies a non-nil empty OpsetImports removes
// the default declaration.
func TestAssembleSuppressedOpsets(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(1))
	opts := &Options{OpsetImports: []onnx.OperatorSetID{}}

	model, err := Assemble([]graph.Value{x}, []NamedValue{{Name: "y", Value: x}}, weights.NewDiscard(), opts)
	require.NoError(t, err)
	assert.Empty(t, model.OpsetImport)
}

// TestAssembleIntermediateNaming verifies an unnamed intermediate gets a
// generated name and a value_info entry.
func TestAssembleIntermediateNaming(t *testing.T) {
	x, y := buildChain(t)

	model, err := Assemble([]graph.Value{x}, []NamedValue{{Name: "y", Value: y}}, weights.NewDiscard(), nil)
	require.NoError(t, err)

	g := model.Graph
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "Sigmoid", g.Nodes[0].OpType)
	assert.Equal(t, "Mul", g.Nodes[1].OpType)

	sigOut := g.Nodes[0].Outputs[0]
	assert.Equal(t, "tensor_0", sigOut)
	assert.Equal(t, []string{"x", sigOut}, g.Nodes[1].Inputs)

	require.Len(t, g.ValueInfo, 1)
	assert.Equal(t, sigOut, g.ValueInfo[0].Name)
}

// TestAssembleDeterministic verifies the same graph assembles to identical
// bytes on repeat runs.
func TestAssembleDeterministic(t *testing.T) {
	x, y := buildChain(t)
	inputs := []graph.Value{x}
	outputs := []NamedValue{{Name: "y", Value: y}}

	a, err := Assemble(inputs, outputs, weights.NewDiscard(), nil)
	require.NoError(t, err)
	b, err := Assemble(inputs, outputs, weights.NewDiscard(), nil)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(onnx.Marshal(a), onnx.Marshal(b)))
}

// TestAssembleFanInNamedOnce verifies a value consumed by several operations
// is named once and referenced by that single name everywhere.
func TestAssembleFanInNamedOnce(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2))
	sig := ops.NewSigmoid("", x)
	left, err := ops.NewMul("", sig, sig)
	require.NoError(t, err)
	right, err := ops.NewAdd("", sig, x)
	require.NoError(t, err)
	root, err := ops.NewAdd("", left, right)
	require.NoError(t, err)

	model, err := Assemble([]graph.Value{x}, []NamedValue{{Name: "out", Value: root}}, weights.NewDiscard(), nil)
	require.NoError(t, err)

	g := model.Graph
	require.Len(t, g.Nodes, 4)

	sigName := g.Nodes[0].Outputs[0]
	assert.Equal(t, []string{sigName, sigName}, g.Nodes[1].Inputs)
	assert.Equal(t, []string{sigName, "x"}, g.Nodes[2].Inputs)

	// Injectivity: every assigned name is distinct.
	seen := make(map[string]bool)
	for _, n := range g.Nodes {
		for _, out := range n.Outputs {
			assert.False(t, seen[out], "name %q assigned twice", out)
			seen[out] = true
		}
	}
}

func TestAssembleExplicitNameConflict(t *testing.T) {
	a := ops.NewInput("x", graph.Float32, graph.ShapeOf(2))
	b := ops.NewInput("x", graph.Float32, graph.ShapeOf(2))
	sum, err := ops.NewAdd("", a, b)
	require.NoError(t, err)

	_, err = Assemble([]graph.Value{a, b}, []NamedValue{{Name: "y", Value: sum}}, weights.NewDiscard(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNameConflict)

	var conflict *NameConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "x", conflict.Name)
}

// TestAssembleOutputNameCollision verifies an output name already claimed by
// a different value is rejected rather than silently renamed.
func TestAssembleOutputNameCollision(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2))
	sig := ops.NewSigmoid("", x)

	_, err := Assemble([]graph.Value{x}, []NamedValue{{Name: "x", Value: sig}}, weights.NewDiscard(), nil)
	assert.ErrorIs(t, err, ErrNameConflict)

	// Two outputs with the same name on different values collide too.
	other := ops.NewSigmoid("", x)
	_, err = Assemble(
		[]graph.Value{x},
		[]NamedValue{{Name: "y", Value: sig}, {Name: "y", Value: other}},
		weights.NewDiscard(),
		nil,
	)
	assert.ErrorIs(t, err, ErrNameConflict)
}

// TestAssembleOutputNameWins verifies the caller's output name supersedes a
// value's explicit name, and the explicit name stays claimed.
func TestAssembleOutputNameWins(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2))
	sig := ops.NewSigmoid("act", x)

	model, err := Assemble([]graph.Value{x}, []NamedValue{{Name: "y", Value: sig}}, weights.NewDiscard(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"y"}, model.Graph.Nodes[0].Outputs)
	for _, vi := range model.Graph.ValueInfo {
		assert.NotEqual(t, "act", vi.Name)
	}
}

// TestAssembleGeneratedSkipsClaimed verifies generated names never collide
// with caller-given ones: the counter skips a claimed candidate.
func TestAssembleGeneratedSkipsClaimed(t *testing.T) {
	x, y := buildChain(t)

	model, err := Assemble([]graph.Value{x}, []NamedValue{{Name: "tensor_0", Value: y}}, weights.NewDiscard(), nil)
	require.NoError(t, err)

	g := model.Graph
	assert.Equal(t, "tensor_1", g.Nodes[0].Outputs[0])
	assert.Equal(t, []string{"tensor_0"}, g.Nodes[1].Outputs)
}

// TestAssembleUnusedInput verifies a declared input nothing consumes still
// gets a typed graph entry.
func TestAssembleUnusedInput(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2))
	unused := ops.NewInput("extra", graph.Int64, graph.ShapeOf(1))
	sig := ops.NewSigmoid("", x)

	model, err := Assemble([]graph.Value{x, unused}, []NamedValue{{Name: "y", Value: sig}}, weights.NewDiscard(), nil)
	require.NoError(t, err)

	g := model.Graph
	require.Len(t, g.Inputs, 2)
	assert.Equal(t, "extra", g.Inputs[1].Name)
	// The unused input feeds no node.
	for _, n := range g.Nodes {
		assert.NotContains(t, n.Inputs, "extra")
	}
}

// TestAssembleUnconsumedSlot verifies a multi-output operation with one
// consumed slot emits the empty name for the other, ONNX's unused marker.
func TestAssembleUnconsumedSlot(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2, 8))
	sp, err := ops.NewSplit("", x, 1, 2)
	require.NoError(t, err)

	model, err := Assemble(
		[]graph.Value{x},
		[]NamedValue{{Name: "first", Value: sp.Output(0)}},
		weights.NewDiscard(),
		nil,
	)
	require.NoError(t, err)

	g := model.Graph
	require.Len(t, g.Nodes, 1)
	require.Len(t, g.Nodes[0].Outputs, 2)
	assert.Equal(t, "first", g.Nodes[0].Outputs[0])
	assert.Equal(t, "", g.Nodes[0].Outputs[1])

	for _, vi := range g.ValueInfo {
		assert.NotEqual(t, "", vi.Name)
	}
}

// TestAssembleTopologyStrategyInvariant verifies the node list, the typed
// input/output/value_info sections, and the name assignments do not depend
// on the weight strategy; only the initializer payload representation may
// differ.
func TestAssembleTopologyStrategyInvariant(t *testing.T) {
	build := func() ([]graph.Value, []NamedValue) {
		x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2, 3))
		w, err := ops.Float32s("w", []float32{1, 2, 3, 4, 5, 6}, graph.ShapeOf(3, 2))
		require.NoError(t, err)
		mm, err := ops.NewMatMul("", x, w)
		require.NoError(t, err)
		sig := ops.NewSigmoid("", mm)
		return []graph.Value{x}, []NamedValue{{Name: "y", Value: sig}}
	}

	in1, out1 := build()
	discarded, err := Assemble(in1, out1, weights.NewDiscard(), nil)
	require.NoError(t, err)

	embedded, err := Assemble(in1, out1, weights.NewEmbedded(), nil)
	require.NoError(t, err)

	blobPath := filepath.Join(t.TempDir(), "model.weights")
	external, err := Assemble(in1, out1, weights.NewExternalFile(blobPath), nil)
	require.NoError(t, err)

	for _, model := range []*onnx.ModelProto{embedded, external} {
		assert.Equal(t, discarded.Graph.Nodes, model.Graph.Nodes)
		assert.Equal(t, discarded.Graph.Inputs, model.Graph.Inputs)
		assert.Equal(t, discarded.Graph.Outputs, model.Graph.Outputs)
		assert.Equal(t, discarded.Graph.ValueInfo, model.Graph.ValueInfo)
	}

	assert.Empty(t, discarded.Graph.Initializers)
	require.Len(t, embedded.Graph.Initializers, 1)
	assert.Equal(t, "w", embedded.Graph.Initializers[0].Name)
	assert.Len(t, embedded.Graph.Initializers[0].RawData, 24)

	require.Len(t, external.Graph.Initializers, 1)
	assert.Equal(t, "w", external.Graph.Initializers[0].Name)
	assert.Empty(t, external.Graph.Initializers[0].RawData)
	assert.Equal(t, int32(onnx.DataLocationExternal), external.Graph.Initializers[0].DataLocation)
}

// TestAssembleExternalWeights runs the full external-data path: blob on
// disk, initializers referencing spans, no inline payloads.
func TestAssembleExternalWeights(t *testing.T) {
	dir := t.TempDir()
	blobPath := filepath.Join(dir, "model.weights")

	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2, 3))
	w1, err := ops.Float32s("w1", []float32{1, 2, 3, 4, 5, 6}, graph.ShapeOf(3, 2))
	require.NoError(t, err)
	mm, err := ops.NewMatMul("", x, w1)
	require.NoError(t, err)
	w2, err := ops.Float32s("w2", []float32{1, 2}, graph.ShapeOf(2))
	require.NoError(t, err)
	sum, err := ops.NewAdd("", mm, w2)
	require.NoError(t, err)

	model, err := Assemble(
		[]graph.Value{x},
		[]NamedValue{{Name: "y", Value: sum}},
		weights.NewExternalFile(blobPath),
		nil,
	)
	require.NoError(t, err)

	g := model.Graph
	require.Len(t, g.Initializers, 2)
	for _, init := range g.Initializers {
		assert.Equal(t, int32(onnx.DataLocationExternal), init.DataLocation)
		assert.Empty(t, init.RawData)
		require.Len(t, init.ExternalData, 3)
		assert.Equal(t, "model.weights", init.ExternalData[0].Value)
	}

	// Spans cover the blob without overlap: 24 + 8 bytes.
	offsets := map[string]string{}
	for _, init := range g.Initializers {
		offsets[init.Name] = init.ExternalData[1].Value
	}
	assert.Len(t, offsets, 2)
}

// TestAssembleSymbolicOutput verifies symbolic dimensions survive into the
// exported value descriptors.
func TestAssembleSymbolicOutput(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.Shape{graph.SymbolicDim("batch"), graph.FixedDim(4)})
	sig := ops.NewSigmoid("", x)

	model, err := Assemble([]graph.Value{x}, []NamedValue{{Name: "y", Value: sig}}, weights.NewDiscard(), nil)
	require.NoError(t, err)

	dims := model.Graph.Outputs[0].Type.TensorType.Shape.Dims
	require.Len(t, dims, 2)
	assert.Equal(t, "batch", dims[0].DimParam)
	assert.False(t, dims[0].HasDimValue)
	assert.Equal(t, int64(4), dims[1].DimValue)
	assert.True(t, dims[1].HasDimValue)
}

// TestAssembleConstantAsOutput verifies a constant declared as an output is
// both an initializer and a typed output.
func TestAssembleConstantAsOutput(t *testing.T) {
	w, err := ops.Float32s("w", []float32{1, 2}, graph.ShapeOf(2))
	require.NoError(t, err)

	model, err := Assemble(nil, []NamedValue{{Name: "w", Value: w}}, weights.NewEmbedded(), nil)
	require.NoError(t, err)

	g := model.Graph
	assert.Empty(t, g.Nodes)
	require.Len(t, g.Initializers, 1)
	assert.Equal(t, "w", g.Initializers[0].Name)
	require.Len(t, g.Outputs, 1)
	assert.Equal(t, "w", g.Outputs[0].Name)
}
