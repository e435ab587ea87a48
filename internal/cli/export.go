package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/born-ml/onnxkit/internal/export"
	"github.com/born-ml/onnxkit/internal/graph"
	"github.com/born-ml/onnxkit/internal/graph/ops"
	"github.com/born-ml/onnxkit/internal/layers"
	"github.com/born-ml/onnxkit/internal/onnx"
	"github.com/born-ml/onnxkit/internal/weights"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	out          string // output model path
	strategy     string // discard, embed, or external
	externalPath string // blob path for the external strategy
	dtype        string // weight element type
	inFeatures   int64
	hidden       int64
	outFeatures  int64
}

// newExportCmd creates the export command. It builds a small SiLU MLP with
// deterministic weights and exports it under the chosen strategy, which
// makes it a quick way to produce valid models for downstream tooling.
func newExportCmd() *cobra.Command {
	opts := exportOpts{
		out:         "model.onnx",
		strategy:    "embed",
		dtype:       "float32",
		inFeatures:  4,
		hidden:      8,
		outFeatures: 2,
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a demo MLP model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", opts.out, "output model path")
	cmd.Flags().StringVar(&opts.strategy, "weights", opts.strategy, "weight placement: discard, embed, or external")
	cmd.Flags().StringVar(&opts.externalPath, "external-path", "", "blob path for --weights external (default <out>.weights)")
	cmd.Flags().StringVar(&opts.dtype, "dtype", opts.dtype, "weight element type: float32, float16, or bfloat16")
	cmd.Flags().Int64Var(&opts.inFeatures, "in-features", opts.inFeatures, "model input width")
	cmd.Flags().Int64Var(&opts.hidden, "hidden", opts.hidden, "hidden layer width")
	cmd.Flags().Int64Var(&opts.outFeatures, "out-features", opts.outFeatures, "model output width")

	return cmd
}

func runExport(cmd *cobra.Command, opts exportOpts) error {
	logger := loggerFromContext(cmd.Context())

	dtype, err := parseDType(opts.dtype)
	if err != nil {
		return err
	}
	strategy, blobPath, err := parseStrategy(opts)
	if err != nil {
		return err
	}

	store := demoStore(dtype, opts.inFeatures, opts.hidden, opts.outFeatures)
	logger.Debugf("Built weight store with %d tensors", store.Len())

	x := ops.NewInput("x", graph.Float32, graph.Shape{
		graph.SymbolicDim("batch"), graph.FixedDim(opts.inFeatures),
	})
	h, err := layers.Cast(x, dtype)
	if err != nil {
		return err
	}
	mlp := store.Prefix("mlp")
	h, err = layers.Linear(mlp.Prefix("fc1"), h)
	if err != nil {
		return err
	}
	h, err = layers.SiLU(h)
	if err != nil {
		return err
	}
	h, err = layers.Linear(mlp.Prefix("fc2"), h)
	if err != nil {
		return err
	}
	y, err := layers.Cast(h, graph.Float32)
	if err != nil {
		return err
	}

	model, err := export.Assemble(
		[]graph.Value{x},
		[]export.NamedValue{{Name: "y", Value: y}},
		strategy,
		&export.Options{GraphName: "demo_mlp"},
	)
	if err != nil {
		return err
	}
	if err := onnx.WriteFile(opts.out, model); err != nil {
		return err
	}

	logger.Infof("Wrote %s (%d nodes, %d initializers)",
		opts.out, len(model.Graph.Nodes), len(model.Graph.Initializers))
	if blobPath != "" {
		logger.Infof("Weight blob at %s", blobPath)
	}
	return nil
}

// demoStore fills a two-layer MLP with a deterministic ramp so repeated
// exports are byte-identical.
func demoStore(dtype graph.DataType, in, hidden, out int64) *weights.Store {
	store := weights.NewStore()

	ramp := func(n int64) []float32 {
		vals := make([]float32, n)
		for i := range vals {
			vals[i] = float32(math.Sin(float64(i))) * 0.1
		}
		return vals
	}
	add := store.AddFloat32
	switch dtype {
	case graph.Float16:
		add = store.AddFloat16
	case graph.BFloat16:
		add = store.AddBFloat16
	}

	add("mlp.fc1.weight", ramp(hidden*in), graph.ShapeOf(hidden, in))
	add("mlp.fc1.bias", ramp(hidden), graph.ShapeOf(hidden))
	add("mlp.fc2.weight", ramp(out*hidden), graph.ShapeOf(out, hidden))
	add("mlp.fc2.bias", ramp(out), graph.ShapeOf(out))
	return store
}

func parseDType(s string) (graph.DataType, error) {
	switch s {
	case "float32":
		return graph.Float32, nil
	case "float16":
		return graph.Float16, nil
	case "bfloat16":
		return graph.BFloat16, nil
	default:
		return 0, fmt.Errorf("unknown dtype %q (want float32, float16, or bfloat16)", s)
	}
}

func parseStrategy(opts exportOpts) (weights.Strategy, string, error) {
	switch opts.strategy {
	case "discard":
		return weights.NewDiscard(), "", nil
	case "embed":
		return weights.NewEmbedded(), "", nil
	case "external":
		path := opts.externalPath
		if path == "" {
			path = opts.out + ".weights"
		}
		return weights.NewExternalFile(path), path, nil
	default:
		return nil, "", fmt.Errorf("unknown weight strategy %q (want discard, embed, or external)", opts.strategy)
	}
}
