package weights

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/born-ml/onnxkit/internal/graph"
	"github.com/born-ml/onnxkit/internal/onnx"
)

// Protocol errors.
var (
	ErrFinalized    = errors.New("weight strategy already finalized")
	ErrNotFinalized = errors.New("weight strategy not finalized")
)

// Strategy decides where constant payload bytes end up.
//
// The export engine drives a strategy through a fixed protocol: Gather once
// per constant Value in unspecified order, then Finalize exactly once, then
// Initializer for every named constant. A strategy must tolerate the empty
// protocol (zero gathers, then Finalize).
type Strategy interface {
	// Gather hands the strategy one constant value and its payload. The
	// payload is retained by reference, never copied by the engine.
	Gather(v graph.Value, payload []byte)

	// Finalize completes payload routing (e.g. flushes and closes a side
	// file). I/O errors abort the whole export.
	Finalize() error

	// Initializer materializes the initializer entry for a gathered value
	// under its assigned name. ok is false when the strategy emits no entry
	// for this value (Discard, or a value never gathered).
	Initializer(v graph.Value, name string) (entry *onnx.TensorProto, ok bool, err error)
}

// initializerHeader builds the name/dtype/dims portion of an initializer
// entry. Constants need fully fixed shapes; a symbolic dimension surfaces as
// ErrUnresolvedDimension and an unknown dtype as ErrUnsupportedDType.
func initializerHeader(v graph.Value, name string) (*onnx.TensorProto, error) {
	code, err := v.DType().ONNX()
	if err != nil {
		return nil, fmt.Errorf("initializer %q: %w", name, err)
	}
	shape := v.Shape()
	dims := make([]int64, shape.Rank())
	for i, d := range shape {
		if !d.Known() {
			return nil, fmt.Errorf("initializer %q: %w: dimension %d of %s",
				name, graph.ErrUnresolvedDimension, i, shape)
		}
		dims[i] = d.Value()
	}
	return &onnx.TensorProto{Name: name, DataType: code, Dims: dims}, nil
}

// Discard drops every constant payload: the exported model carries graph
// structure only. Useful for producing a topology to diff or inspect.
type Discard struct{}

// NewDiscard returns the discarding strategy.
func NewDiscard() Discard { return Discard{} }

// Gather drops the payload.
func (Discard) Gather(graph.Value, []byte) {}

// Finalize does nothing.
func (Discard) Finalize() error { return nil }

// Initializer emits no entry.
func (Discard) Initializer(graph.Value, string) (*onnx.TensorProto, bool, error) {
	return nil, false, nil
}

// Embedded inlines every constant payload as raw bytes in its initializer
// entry. The model file is self-contained.
type Embedded struct {
	payloads map[uint64][]byte
}

// NewEmbedded returns the embedding strategy.
func NewEmbedded() *Embedded {
	return &Embedded{payloads: make(map[uint64][]byte)}
}

// Gather retains the payload by reference, keyed by value identity.
func (e *Embedded) Gather(v graph.Value, payload []byte) {
	e.payloads[v.ID()] = payload
}

// Finalize does nothing; payloads stay in memory until assembly.
func (*Embedded) Finalize() error { return nil }

// Initializer emits an entry with the payload inlined in RawData.
func (e *Embedded) Initializer(v graph.Value, name string) (*onnx.TensorProto, bool, error) {
	payload, ok := e.payloads[v.ID()]
	if !ok {
		return nil, false, nil
	}
	entry, err := initializerHeader(v, name)
	if err != nil {
		return nil, false, err
	}
	entry.RawData = payload
	return entry, true, nil
}

// ExternalFile appends every constant payload to a single blob at a caller
// path. Initializer entries reference the blob by offset and length instead
// of carrying bytes, the ONNX external-data convention.
type ExternalFile struct {
	path      string
	gathered  []externalPayload
	spans     map[uint64]span
	finalized bool
}

type externalPayload struct {
	id      uint64
	payload []byte
}

type span struct {
	offset int64
	length int64
}

// NewExternalFile returns a strategy writing payloads to path. The file is
// created at Finalize, so a fully discarded or empty graph still produces a
// (zero-length) blob.
func NewExternalFile(path string) *ExternalFile {
	return &ExternalFile{path: path, spans: make(map[uint64]span)}
}

// Gather queues the payload for the blob.
func (x *ExternalFile) Gather(v graph.Value, payload []byte) {
	x.gathered = append(x.gathered, externalPayload{id: v.ID(), payload: payload})
}

// Finalize writes all gathered payloads to the blob sequentially, records
// their spans, and closes the file.
//
//nolint:gosec // G304: The blob path is caller-chosen by design.
func (x *ExternalFile) Finalize() error {
	if x.finalized {
		return ErrFinalized
	}
	x.finalized = true

	f, err := os.Create(x.path)
	if err != nil {
		return fmt.Errorf("failed to create weight file: %w", err)
	}

	var offset int64
	for _, g := range x.gathered {
		if _, err := f.Write(g.payload); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write weight file: %w", err)
		}
		x.spans[g.id] = span{offset: offset, length: int64(len(g.payload))}
		offset += int64(len(g.payload))
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close weight file: %w", err)
	}
	x.gathered = nil
	return nil
}

// Initializer emits an entry referencing the blob by location/offset/length.
func (x *ExternalFile) Initializer(v graph.Value, name string) (*onnx.TensorProto, bool, error) {
	if !x.finalized {
		return nil, false, ErrNotFinalized
	}
	sp, ok := x.spans[v.ID()]
	if !ok {
		return nil, false, nil
	}
	entry, err := initializerHeader(v, name)
	if err != nil {
		return nil, false, err
	}
	entry.DataLocation = onnx.DataLocationExternal
	entry.ExternalData = []onnx.StringStringEntry{
		// Location is relative to the model file per the ONNX convention.
		{Key: "location", Value: filepath.Base(x.path)},
		{Key: "offset", Value: strconv.FormatInt(sp.offset, 10)},
		{Key: "length", Value: strconv.FormatInt(sp.length, 10)},
	}
	return entry, true, nil
}

// Path returns the blob path the strategy writes to.
func (x *ExternalFile) Path() string { return x.path }
