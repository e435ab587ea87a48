package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/onnxkit/internal/graph"
	"github.com/born-ml/onnxkit/internal/graph/ops"
	"github.com/born-ml/onnxkit/internal/weights"
)

func linearStore(t *testing.T, prefix string, out, in int64, bias bool) *weights.Store {
	t.Helper()
	store := weights.NewStore()
	w := make([]float32, out*in)
	for i := range w {
		w[i] = float32(i)
	}
	store.AddFloat32(prefix+".weight", w, graph.ShapeOf(out, in))
	if bias {
		store.AddFloat32(prefix+".bias", make([]float32, out), graph.ShapeOf(out))
	}
	return store.Prefix(prefix)
}

func TestLinearShape(t *testing.T) {
	store := linearStore(t, "fc", 8, 4, true)
	x := ops.NewInput("x", graph.Float32, graph.Shape{graph.SymbolicDim("batch"), graph.FixedDim(4)})

	y, err := Linear(store, x)
	require.NoError(t, err)

	out := y.Shape()
	require.Equal(t, 2, out.Rank())
	assert.Equal(t, "batch", out[0].Param())
	assert.Equal(t, int64(8), out[1].Value())
}

func TestLinearNoBias(t *testing.T) {
	store := linearStore(t, "fc", 8, 4, false)
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2, 4))

	y, err := Linear(store, x)
	require.NoError(t, err)
	assert.True(t, y.Shape().Equal(graph.ShapeOf(2, 8)))

	// Without a bias the top of the chain is the Squeeze, not an Add.
	op, ok := y.(graph.Operation)
	require.True(t, ok)
	assert.Equal(t, "Squeeze", op.OpType())
}

func TestLinearMissingWeight(t *testing.T) {
	store := weights.NewStore().Prefix("fc")
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2, 4))

	_, err := Linear(store, x)
	assert.ErrorIs(t, err, weights.ErrNoSuchTensor)
}

// TestLinearKeepsCheckpointNames verifies the initializers of an exported
// linear layer keep the store's dotted names.
func TestLinearKeepsCheckpointNames(t *testing.T) {
	store := linearStore(t, "fc", 2, 2, true)
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(1, 2))

	y, err := Linear(store, x)
	require.NoError(t, err)

	vals := graph.NewValueSet()
	vals.Add(y)
	y.CollectValues(vals)

	var names []string
	for _, v := range vals.Ordered() {
		if v.Name() != "" {
			names = append(names, v.Name())
		}
	}
	assert.Contains(t, names, "fc.weight")
	assert.Contains(t, names, "fc.bias")
}

func TestLayerNorm(t *testing.T) {
	store := weights.NewStore()
	store.AddFloat32("ln.weight", make([]float32, 8), graph.ShapeOf(8))
	store.AddFloat32("ln.bias", make([]float32, 8), graph.ShapeOf(8))
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2, 8))

	y, err := LayerNorm(store.Prefix("ln"), x, 1e-5)
	require.NoError(t, err)

	assert.True(t, y.Shape().Equal(x.Shape()))
	op := y.(graph.Operation)
	assert.Equal(t, "LayerNormalization", op.OpType())
	assert.Len(t, op.Inputs(), 3)
}

func TestRMSNorm(t *testing.T) {
	store := weights.NewStore()
	store.AddFloat32("norm.weight", make([]float32, 8), graph.ShapeOf(8))
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2, 8))

	y, err := RMSNorm(store.Prefix("norm"), x, 1e-6)
	require.NoError(t, err)

	op := y.(graph.Operation)
	assert.Equal(t, "RMSNormalization", op.OpType())
	assert.Len(t, op.Inputs(), 2)
}

func TestGroupNorm(t *testing.T) {
	store := weights.NewStore()
	store.AddFloat32("gn.weight", make([]float32, 8), graph.ShapeOf(8))
	store.AddFloat32("gn.bias", make([]float32, 8), graph.ShapeOf(8))
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2, 8, 4, 4))

	y, err := GroupNorm(store.Prefix("gn"), x, 1e-5, 4)
	require.NoError(t, err)

	assert.True(t, y.Shape().Equal(x.Shape()))
	op := y.(graph.Operation)
	assert.Equal(t, "GroupNormalization", op.OpType())
	assert.Len(t, op.Inputs(), 3)
}

func TestGroupNormMissingBias(t *testing.T) {
	store := weights.NewStore()
	store.AddFloat32("gn.weight", make([]float32, 8), graph.ShapeOf(8))
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2, 8, 4, 4))

	_, err := GroupNorm(store.Prefix("gn"), x, 1e-5, 4)
	assert.ErrorIs(t, err, weights.ErrNoSuchTensor)
}

// TestSiLUSharesInput verifies the Mul and inner Sigmoid consume the same
// value object, so traversal visits x once.
func TestSiLUSharesInput(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2))

	y, err := SiLU(x)
	require.NoError(t, err)

	op := y.(graph.Operation)
	require.Equal(t, "Mul", op.OpType())
	require.Len(t, op.Inputs(), 2)
	assert.Equal(t, x.ID(), op.Inputs()[0].ID())

	sig := op.Inputs()[1].(graph.Operation)
	assert.Equal(t, "Sigmoid", sig.OpType())
	assert.Equal(t, x.ID(), sig.Inputs()[0].ID())
}

func TestSwiGLU(t *testing.T) {
	store := weights.NewStore()
	store.AddFloat32("ffn.linear_inner.weight", make([]float32, 16*4), graph.ShapeOf(16, 4))
	store.AddFloat32("ffn.linear_outer.weight", make([]float32, 16*4), graph.ShapeOf(16, 4))
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2, 4))

	y, err := SwiGLU(store.Prefix("ffn"), x)
	require.NoError(t, err)
	assert.True(t, y.Shape().Equal(graph.ShapeOf(2, 16)))
}

func TestReshapeHelper(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2, 3, 4))

	y, err := Reshape(x, []int64{0, -1})
	require.NoError(t, err)
	assert.True(t, y.Shape().Equal(graph.ShapeOf(2, 12)))
}

func TestUnsqueezeSqueezeHelpers(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2, 3))

	u, err := Unsqueeze(x, -1)
	require.NoError(t, err)
	assert.True(t, u.Shape().Equal(graph.ShapeOf(2, 3, 1)))

	s, err := Squeeze(u, 2)
	require.NoError(t, err)
	assert.True(t, s.Shape().Equal(graph.ShapeOf(2, 3)))
}

func TestTransposeHelper(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(5, 2, 3))

	y, err := Transpose(x)
	require.NoError(t, err)
	assert.True(t, y.Shape().Equal(graph.ShapeOf(5, 3, 2)))
}

// TestCastPassthrough verifies a no-op cast returns the input value itself
// rather than inserting a node.
func TestCastPassthrough(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2))

	same, err := Cast(x, graph.Float32)
	require.NoError(t, err)
	assert.Equal(t, x.ID(), same.ID())

	cast, err := Cast(x, graph.Float16)
	require.NoError(t, err)
	assert.NotEqual(t, x.ID(), cast.ID())
	assert.Equal(t, graph.Float16, cast.DType())
}

func TestDivScalarShape(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2, 3))

	y, err := DivScalar(x, 8.0)
	require.NoError(t, err)
	assert.True(t, y.Shape().Equal(graph.ShapeOf(2, 3)))
}

func TestSliceHelper(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(4, 6))

	y, err := Slice(x, []int64{1, 2}, []int64{3, 6})
	require.NoError(t, err)
	assert.True(t, y.Shape().Equal(graph.ShapeOf(2, 4)))

	op := y.(graph.Operation)
	assert.Equal(t, "Slice", op.OpType())
	assert.Len(t, op.Inputs(), 3)
}

func TestExpandHelper(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(3, 1))

	y, err := Expand(x, []int64{2, 3, 4})
	require.NoError(t, err)
	assert.True(t, y.Shape().Equal(graph.ShapeOf(2, 3, 4)))
}

func TestCumSumHelper(t *testing.T) {
	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(2, 5))

	y, err := CumSum(x, -1)
	require.NoError(t, err)
	assert.True(t, y.Shape().Equal(x.Shape()))
	assert.Equal(t, "CumSum", y.(graph.Operation).OpType())
}
