package export

import (
	"fmt"

	"github.com/born-ml/onnxkit/internal/graph"
	"github.com/born-ml/onnxkit/internal/onnx"
	"github.com/born-ml/onnxkit/internal/weights"
)

// Producer identification stamped into exported models.
const (
	producerName    = "onnxkit"
	producerVersion = "0.1.0"
)

// DefaultOpsetVersion is the default-domain opset declared on exported
// models unless Options overrides it.
const DefaultOpsetVersion = 21

// DefaultIRVersion is the ONNX IR version declared on exported models.
const DefaultIRVersion = 10

// NamedValue pairs a declared graph output with its caller-given name.
type NamedValue struct {
	Name  string
	Value graph.Value
}

// Options configures model-level metadata. The zero value (or nil) uses the
// package defaults.
type Options struct {
	// GraphName names the embedded graph. Optional.
	GraphName string

	// DocString documents the model. Optional.
	DocString string

	// ProducerName and ProducerVersion override the producer stamp.
	ProducerName    string
	ProducerVersion string

	// IRVersion overrides DefaultIRVersion when non-zero.
	IRVersion int64

	// OpsetImports overrides the default single default-domain entry.
	// A non-nil empty slice suppresses opset declarations entirely.
	OpsetImports []onnx.OperatorSetID
}

// Assemble flattens the graph reachable from outputs into an ONNX model.
//
// inputs are the declared graph inputs, in order; outputs pair each declared
// output value with its name in the exported model. The strategy decides
// where constant payloads end up (see the weights package).
//
// Naming precedence: a value's explicit name wins, then the caller-given
// output name, then a generated "tensor_<n>". Any name claimed by two
// distinct values fails with a NameConflictError. Emission order is
// first-seen depth-first order from the declared outputs, so the same graph
// assembles to the same bytes every time.
func Assemble(inputs []graph.Value, outputs []NamedValue, strategy weights.Strategy, opts *Options) (*onnx.ModelProto, error) {
	if opts == nil {
		opts = &Options{}
	}

	// Reachability: collect the full operation and value sets behind the
	// declared outputs, deduplicated by identity.
	opSet := graph.NewOpSet()
	valSet := graph.NewValueSet()
	for _, out := range outputs {
		out.Value.CollectOps(opSet)
		if valSet.Add(out.Value) {
			out.Value.CollectValues(valSet)
		}
	}
	// Declared inputs join the value set even when nothing consumes them, so
	// they still get a name and a typed entry.
	for _, in := range inputs {
		valSet.Add(in)
	}

	names, err := assignNames(valSet, outputs)
	if err != nil {
		return nil, err
	}

	// Weight gathering: every constant payload goes through the strategy,
	// then Finalize runs exactly once.
	for _, v := range valSet.Ordered() {
		if cv, ok := v.(graph.ConstValue); ok {
			strategy.Gather(cv, cv.Payload())
		}
	}
	if err := strategy.Finalize(); err != nil {
		return nil, err
	}

	g := &onnx.GraphProto{Name: opts.GraphName}

	// Nodes, with inputs/outputs translated through the name table. An
	// output value absent from the table is an unconsumed slot of a
	// multi-output operation; it is emitted as the empty name, ONNX's
	// marker for an unused result.
	for _, op := range opSet.Ordered() {
		node := onnx.NodeProto{
			Name:       op.Name(),
			OpType:     op.OpType(),
			Domain:     op.Domain(),
			Attributes: op.Attributes(),
		}
		for _, in := range op.Inputs() {
			node.Inputs = append(node.Inputs, names[in.ID()])
		}
		for _, out := range op.Outputs() {
			node.Outputs = append(node.Outputs, names[out.ID()])
		}
		g.Nodes = append(g.Nodes, node)
	}

	// Initializers: every reachable value with constant data, regardless of
	// input/output classification.
	for _, v := range valSet.Ordered() {
		cv, ok := v.(graph.ConstValue)
		if !ok {
			continue
		}
		entry, ok, err := strategy.Initializer(cv, names[cv.ID()])
		if err != nil {
			return nil, err
		}
		if ok {
			g.Initializers = append(g.Initializers, *entry)
		}
	}

	// Typed declared inputs and outputs.
	for _, in := range inputs {
		vi, err := valueInfo(names[in.ID()], in)
		if err != nil {
			return nil, err
		}
		g.Inputs = append(g.Inputs, vi)
	}
	for _, out := range outputs {
		vi, err := valueInfo(out.Name, out.Value)
		if err != nil {
			return nil, err
		}
		g.Outputs = append(g.Outputs, vi)
	}

	// Intermediates: reachable values that are neither declared inputs nor
	// declared outputs, by identity.
	declared := make(map[uint64]struct{}, len(inputs)+len(outputs))
	for _, in := range inputs {
		declared[in.ID()] = struct{}{}
	}
	for _, out := range outputs {
		declared[out.Value.ID()] = struct{}{}
	}
	for _, v := range valSet.Ordered() {
		if _, ok := declared[v.ID()]; ok {
			continue
		}
		vi, err := valueInfo(names[v.ID()], v)
		if err != nil {
			return nil, err
		}
		g.ValueInfo = append(g.ValueInfo, vi)
	}

	model := &onnx.ModelProto{
		IRVersion:       DefaultIRVersion,
		ProducerName:    producerName,
		ProducerVersion: producerVersion,
		DocString:       opts.DocString,
		Graph:           g,
		OpsetImport:     []onnx.OperatorSetID{{Domain: "", Version: DefaultOpsetVersion}},
	}
	if opts.IRVersion != 0 {
		model.IRVersion = opts.IRVersion
	}
	if opts.ProducerName != "" {
		model.ProducerName = opts.ProducerName
	}
	if opts.ProducerVersion != "" {
		model.ProducerVersion = opts.ProducerVersion
	}
	if opts.OpsetImports != nil {
		model.OpsetImport = opts.OpsetImports
	}
	return model, nil
}

// assignNames resolves the injective value → name table.
//
// Precedence: explicit names first (conflict on any duplicate), declared
// output names second (conflict when the name is already claimed by a
// different value), generated names last. The generated counter advances on
// every attempt, claimed or skipped, so generated names are unique but not
// necessarily contiguous.
func assignNames(valSet *graph.ValueSet, outputs []NamedValue) (map[uint64]string, error) {
	claimed := make(map[string]uint64) // name -> claiming value identity
	names := make(map[uint64]string)   // value identity -> name

	for _, v := range valSet.Ordered() {
		name := v.Name()
		if name == "" {
			continue
		}
		if _, taken := claimed[name]; taken {
			return nil, &NameConflictError{Name: name}
		}
		claimed[name] = v.ID()
		names[v.ID()] = name
	}

	for _, out := range outputs {
		if owner, taken := claimed[out.Name]; taken && owner != out.Value.ID() {
			return nil, &NameConflictError{Name: out.Name}
		}
		claimed[out.Name] = out.Value.ID()
		// The output name supersedes an explicit name on the same value;
		// the explicit name stays claimed so nothing else can take it.
		names[out.Value.ID()] = out.Name
	}

	next := 0
	for _, v := range valSet.Ordered() {
		if _, ok := names[v.ID()]; ok {
			continue
		}
		for {
			candidate := fmt.Sprintf("tensor_%d", next)
			next++
			if _, taken := claimed[candidate]; taken {
				continue
			}
			claimed[candidate] = v.ID()
			names[v.ID()] = candidate
			break
		}
	}
	return names, nil
}

// valueInfo builds the typed descriptor for one value. Symbolic dimensions
// export as dim_param entries and unresolved dimensions as empty dims.
func valueInfo(name string, v graph.Value) (onnx.ValueInfoProto, error) {
	code, err := v.DType().ONNX()
	if err != nil {
		return onnx.ValueInfoProto{}, fmt.Errorf("value %q: %w", name, err)
	}
	shape := &onnx.TensorShapeProto{}
	for _, d := range v.Shape() {
		var dim onnx.DimensionProto
		switch {
		case d.Known():
			dim.DimValue = d.Value()
			dim.HasDimValue = true
		case d.Param() != "":
			dim.DimParam = d.Param()
		}
		shape.Dims = append(shape.Dims, dim)
	}
	return onnx.ValueInfoProto{
		Name: name,
		Type: &onnx.TypeProto{
			TensorType: &onnx.TensorTypeProto{ElemType: code, Shape: shape},
		},
	}, nil
}
