// Package export assembles computation graphs into ONNX models.
//
// Assemble walks the graph reachable from the declared outputs, assigns
// every value a unique tensor name, routes constant payloads through a
// weight Strategy, and emits a complete ModelProto. Assembly is atomic:
// any failure returns an error and no model.
//
// # Example Usage
//
//	x := ops.NewInput("x", graph.Float32, graph.ShapeOf(1, 4))
//	w, _ := ops.Float32s("w", weightsData, graph.ShapeOf(4, 4))
//	y, _ := ops.NewMatMul("", x, w)
//
//	model, err := export.Assemble(
//	    []graph.Value{x},
//	    []export.NamedValue{{Name: "y", Value: y}},
//	    export.NewEmbedded(),
//	    nil,
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := onnx.WriteFile("model.onnx", model); err != nil {
//	    log.Fatal(err)
//	}
package export

import (
	"github.com/born-ml/onnxkit/graph"
	"github.com/born-ml/onnxkit/internal/export"
	"github.com/born-ml/onnxkit/internal/weights"
	"github.com/born-ml/onnxkit/onnx"
)

// NamedValue pairs a declared graph output with its caller-given name.
type NamedValue = export.NamedValue

// Options configures model-level metadata. A nil *Options uses the package
// defaults.
type Options = export.Options

// Strategy decides where constant payloads end up. See NewDiscard,
// NewEmbedded, and NewExternalFile.
type Strategy = weights.Strategy

// Discard drops all constant payloads, leaving a topology-only model.
type Discard = weights.Discard

// Embedded inlines constant payloads into the model's initializers.
type Embedded = weights.Embedded

// ExternalFile writes constant payloads into a single side file and records
// per-tensor offsets in the model.
type ExternalFile = weights.ExternalFile

// Store accumulates named weight tensors for layer construction.
type Store = weights.Store

// Entry is one raw tensor held by a Store.
type Entry = weights.Entry

// NameConflictError reports a tensor name claimed by two distinct values.
type NameConflictError = export.NameConflictError

// Default model metadata, used when Options leaves a field zero.
const (
	DefaultOpsetVersion = export.DefaultOpsetVersion
	DefaultIRVersion    = export.DefaultIRVersion
)

// Errors surfaced during assembly.
var (
	ErrNameConflict = export.ErrNameConflict
	ErrFinalized    = weights.ErrFinalized
	ErrNotFinalized = weights.ErrNotFinalized
	ErrNoSuchTensor = weights.ErrNoSuchTensor
)

// Assemble flattens the graph reachable from outputs into an ONNX model.
// See the package documentation for the naming and ordering guarantees.
func Assemble(inputs []graph.Value, outputs []NamedValue, strategy Strategy, opts *Options) (*onnx.ModelProto, error) {
	return export.Assemble(inputs, outputs, strategy, opts)
}

// NewDiscard returns a strategy that drops all payloads.
func NewDiscard() Discard { return weights.NewDiscard() }

// NewEmbedded returns a strategy that inlines payloads into the model.
func NewEmbedded() *Embedded { return weights.NewEmbedded() }

// NewExternalFile returns a strategy that writes payloads to the file at
// path. The exported model references the file by base name, so it must
// stay alongside the model file.
func NewExternalFile(path string) *ExternalFile { return weights.NewExternalFile(path) }

// NewStore returns an empty weight store.
func NewStore() *Store { return weights.NewStore() }
