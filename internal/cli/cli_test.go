package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/born-ml/onnxkit/internal/graph"
	"github.com/born-ml/onnxkit/internal/onnx"
)

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	retrieved := loggerFromContext(withLogger(ctx, logger))
	if retrieved != logger {
		t.Error("loggerFromContext should return the attached logger")
	}

	// Without a logger in context, fall back to the default.
	if loggerFromContext(ctx) == nil {
		t.Error("loggerFromContext should never return nil")
	}
}

func TestParseDType(t *testing.T) {
	tests := []struct {
		in      string
		want    graph.DataType
		wantErr bool
	}{
		{"float32", graph.Float32, false},
		{"float16", graph.Float16, false},
		{"bfloat16", graph.BFloat16, false},
		{"int64", 0, true},
	}

	for _, tt := range tests {
		got, err := parseDType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDType(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDType(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseDType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	if _, _, err := parseStrategy(exportOpts{strategy: "nope"}); err == nil {
		t.Error("unknown strategy should fail")
	}

	_, blob, err := parseStrategy(exportOpts{strategy: "external", out: "m.onnx"})
	if err != nil {
		t.Fatalf("external strategy failed: %v", err)
	}
	if blob != "m.onnx.weights" {
		t.Errorf("default blob path = %q, want m.onnx.weights", blob)
	}
}

// testCmd returns a throwaway command carrying a quiet logger.
func testCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetContext(withLogger(context.Background(), newLogger(&buf, log.ErrorLevel)))
	return cmd
}

func TestExportAndInspect(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "demo.onnx")

	opts := exportOpts{
		out:         modelPath,
		strategy:    "embed",
		dtype:       "float32",
		inFeatures:  4,
		hidden:      8,
		outFeatures: 2,
	}
	if err := runExport(testCmd(t), opts); err != nil {
		t.Fatalf("runExport failed: %v", err)
	}

	model, err := onnx.ParseFile(modelPath)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(model.Graph.Initializers) != 4 {
		t.Errorf("Expected 4 initializers, got %d", len(model.Graph.Initializers))
	}

	cmd := testCmd(t)
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := runInspect(cmd, modelPath, false); err != nil {
		t.Fatalf("runInspect failed: %v", err)
	}

	summary := out.String()
	for _, want := range []string{"ir_version:", "demo_mlp", "MatMul", "x: float32[batch, 4]", "y: float32[batch, 2]"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Inspect output missing %q:\n%s", want, summary)
		}
	}
}

func TestExportExternalWritesBlob(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "demo.onnx")
	blobPath := filepath.Join(dir, "demo.bin")

	opts := exportOpts{
		out:          modelPath,
		strategy:     "external",
		externalPath: blobPath,
		dtype:        "float16",
		inFeatures:   4,
		hidden:       8,
		outFeatures:  2,
	}
	if err := runExport(testCmd(t), opts); err != nil {
		t.Fatalf("runExport failed: %v", err)
	}

	model, err := onnx.ParseFile(modelPath)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	for _, init := range model.Graph.Initializers {
		if init.DataLocation != onnx.DataLocationExternal {
			t.Errorf("Initializer %q should be external", init.Name)
		}
	}
}
