package export_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/onnxkit/export"
	"github.com/born-ml/onnxkit/graph"
	"github.com/born-ml/onnxkit/layers"
	"github.com/born-ml/onnxkit/onnx"
	"github.com/born-ml/onnxkit/ops"
)

// TestExportMLPEndToEnd builds a two-layer MLP through the public API,
// exports it with embedded weights, and parses the bytes back.
func TestExportMLPEndToEnd(t *testing.T) {
	store := export.NewStore()
	store.AddFloat32("mlp.fc1.weight", make([]float32, 8*4), graph.ShapeOf(8, 4))
	store.AddFloat32("mlp.fc1.bias", make([]float32, 8), graph.ShapeOf(8))
	store.AddFloat32("mlp.fc2.weight", make([]float32, 2*8), graph.ShapeOf(2, 8))

	x := ops.NewInput("x", graph.Float32, graph.Shape{graph.SymbolicDim("batch"), graph.FixedDim(4)})

	mlp := store.Prefix("mlp")
	h, err := layers.Linear(mlp.Prefix("fc1"), x)
	require.NoError(t, err)
	h, err = layers.SiLU(h)
	require.NoError(t, err)
	y, err := layers.Linear(mlp.Prefix("fc2"), h)
	require.NoError(t, err)

	model, err := export.Assemble(
		[]graph.Value{x},
		[]export.NamedValue{{Name: "y", Value: y}},
		export.NewEmbedded(),
		&export.Options{GraphName: "mlp"},
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "mlp.onnx")
	require.NoError(t, onnx.WriteFile(path, model))

	parsed, err := onnx.ParseFile(path)
	require.NoError(t, err)

	g := parsed.Graph
	assert.Equal(t, "mlp", g.Name)
	require.Len(t, g.Initializers, 3)
	assert.Len(t, g.Inputs, 1)
	assert.Len(t, g.Outputs, 1)
	assert.Equal(t, "y", g.Outputs[0].Name)
	assert.NotEmpty(t, g.Nodes)

	// All checkpoint names survive the round trip.
	byName := map[string]onnx.TensorProto{}
	for _, init := range g.Initializers {
		byName[init.Name] = init
	}
	require.Contains(t, byName, "mlp.fc1.weight")
	require.Contains(t, byName, "mlp.fc1.bias")
	require.Contains(t, byName, "mlp.fc2.weight")
	assert.Len(t, byName["mlp.fc1.weight"].RawData, 8*4*4)
}

// TestExportGroupNormGraph runs the normalization and indexing helpers
// through the public surface and checks the resulting node types and
// output shape.
func TestExportGroupNormGraph(t *testing.T) {
	store := export.NewStore()
	store.AddFloat32("gn.weight", make([]float32, 8), graph.ShapeOf(8))
	store.AddFloat32("gn.bias", make([]float32, 8), graph.ShapeOf(8))

	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(1, 8, 4, 4))
	h, err := layers.GroupNorm(store.Prefix("gn"), x, 1e-5, 4)
	require.NoError(t, err)
	h, err = layers.Slice(h, []int64{0, 0}, []int64{1, 4})
	require.NoError(t, err)
	h, err = layers.CumSum(h, -1)
	require.NoError(t, err)
	y, err := layers.Expand(h, []int64{2, 4, 4, 4})
	require.NoError(t, err)

	model, err := export.Assemble(
		[]graph.Value{x},
		[]export.NamedValue{{Name: "y", Value: y}},
		export.NewDiscard(),
		nil,
	)
	require.NoError(t, err)

	opTypes := map[string]bool{}
	for _, n := range model.Graph.Nodes {
		opTypes[n.OpType] = true
	}
	for _, want := range []string{"GroupNormalization", "Slice", "CumSum", "Expand"} {
		assert.True(t, opTypes[want], "missing %s node", want)
	}

	dims := model.Graph.Outputs[0].Type.TensorType.Shape.Dims
	require.Len(t, dims, 4)
	assert.Equal(t, int64(2), dims[0].DimValue)
}

// TestExportExternalEndToEnd exports with an external blob and verifies the
// parsed model references it.
func TestExportExternalEndToEnd(t *testing.T) {
	dir := t.TempDir()

	w, err := ops.Float32s("w", []float32{1, 2, 3, 4}, graph.ShapeOf(2, 2))
	require.NoError(t, err)
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2, 2))
	y, err := ops.NewMatMul("", x, w)
	require.NoError(t, err)

	strategy := export.NewExternalFile(filepath.Join(dir, "weights.bin"))
	model, err := export.Assemble(
		[]graph.Value{x},
		[]export.NamedValue{{Name: "y", Value: y}},
		strategy,
		nil,
	)
	require.NoError(t, err)

	parsed, err := onnx.Parse(onnx.Marshal(model))
	require.NoError(t, err)

	require.Len(t, parsed.Graph.Initializers, 1)
	init := parsed.Graph.Initializers[0]
	assert.Equal(t, int32(onnx.DataLocationExternal), init.DataLocation)
	require.Len(t, init.ExternalData, 3)
	assert.Equal(t, "weights.bin", init.ExternalData[0].Value)
}
