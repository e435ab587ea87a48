package cli

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/born-ml/onnxkit/internal/onnx"
)

// newInspectCmd creates the inspect command, a structural summary of an
// ONNX file: versions, opsets, node counts, typed inputs and outputs, and
// where the weights live.
func newInspectCmd() *cobra.Command {
	var showNodes bool

	cmd := &cobra.Command{
		Use:   "inspect <model.onnx>",
		Short: "Summarize the structure of an ONNX model file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], showNodes)
		},
	}

	cmd.Flags().BoolVar(&showNodes, "nodes", false, "list every node")
	return cmd
}

func runInspect(cmd *cobra.Command, path string, showNodes bool) error {
	logger := loggerFromContext(cmd.Context())

	model, err := onnx.ParseFile(path)
	if err != nil {
		return err
	}
	logger.Debugf("Parsed %s", path)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ir_version: %d\n", model.IRVersion)
	fmt.Fprintf(out, "producer:   %s %s\n", model.ProducerName, model.ProducerVersion)
	for _, opset := range model.OpsetImport {
		domain := opset.Domain
		if domain == "" {
			domain = "ai.onnx"
		}
		fmt.Fprintf(out, "opset:      %s v%d\n", domain, opset.Version)
	}

	g := model.Graph
	if g == nil {
		fmt.Fprintln(out, "no graph")
		return nil
	}
	if g.Name != "" {
		fmt.Fprintf(out, "graph:      %s\n", g.Name)
	}

	fmt.Fprintf(out, "\nnodes: %d\n", len(g.Nodes))
	counts := opTypeCounts(g)
	ops := maps.Keys(counts)
	slices.Sort(ops)
	for _, op := range ops {
		fmt.Fprintf(out, "  %-20s %d\n", op, counts[op])
	}
	if showNodes {
		for _, n := range g.Nodes {
			fmt.Fprintf(out, "  %s(%s) -> %s\n", n.OpType,
				strings.Join(n.Inputs, ", "), strings.Join(n.Outputs, ", "))
		}
	}

	fmt.Fprintf(out, "\ninputs:\n")
	for _, vi := range g.Inputs {
		fmt.Fprintf(out, "  %s\n", formatValueInfo(&vi))
	}
	fmt.Fprintf(out, "outputs:\n")
	for _, vi := range g.Outputs {
		fmt.Fprintf(out, "  %s\n", formatValueInfo(&vi))
	}

	inline, external := weightSizes(g)
	fmt.Fprintf(out, "\ninitializers: %d (%s inline", len(g.Initializers), humanize.Bytes(inline))
	if external > 0 {
		fmt.Fprintf(out, ", %d external", external)
	}
	fmt.Fprintln(out, ")")
	return nil
}

// opTypeCounts tallies nodes per operator type.
func opTypeCounts(g *onnx.GraphProto) map[string]int {
	counts := make(map[string]int)
	for _, n := range g.Nodes {
		counts[n.OpType]++
	}
	return counts
}

// weightSizes returns total inline bytes and the external entry count.
func weightSizes(g *onnx.GraphProto) (inline uint64, external int) {
	for i := range g.Initializers {
		init := &g.Initializers[i]
		if init.DataLocation == onnx.DataLocationExternal {
			external++
			continue
		}
		inline += uint64(len(init.RawData))
	}
	return inline, external
}

// formatValueInfo renders "name: float32[batch, 4]".
func formatValueInfo(vi *onnx.ValueInfoProto) string {
	if vi.Type == nil || vi.Type.TensorType == nil {
		return vi.Name
	}
	tt := vi.Type.TensorType

	var dims []string
	if tt.Shape != nil {
		for _, d := range tt.Shape.Dims {
			switch {
			case d.HasDimValue:
				dims = append(dims, fmt.Sprintf("%d", d.DimValue))
			case d.DimParam != "":
				dims = append(dims, d.DimParam)
			default:
				dims = append(dims, "?")
			}
		}
	}
	return fmt.Sprintf("%s: %s[%s]", vi.Name, dtypeName(tt.ElemType), strings.Join(dims, ", "))
}

// dtypeName maps ONNX element-type codes to readable names.
func dtypeName(code int32) string {
	switch code {
	case onnx.TensorProtoFloat:
		return "float32"
	case onnx.TensorProtoFloat16:
		return "float16"
	case onnx.TensorProtoBfloat16:
		return "bfloat16"
	case onnx.TensorProtoDouble:
		return "float64"
	case onnx.TensorProtoInt8:
		return "int8"
	case onnx.TensorProtoInt16:
		return "int16"
	case onnx.TensorProtoInt32:
		return "int32"
	case onnx.TensorProtoInt64:
		return "int64"
	case onnx.TensorProtoUint8:
		return "uint8"
	case onnx.TensorProtoUint16:
		return "uint16"
	case onnx.TensorProtoUint32:
		return "uint32"
	case onnx.TensorProtoUint64:
		return "uint64"
	case onnx.TensorProtoBool:
		return "bool"
	default:
		return fmt.Sprintf("dtype(%d)", code)
	}
}
