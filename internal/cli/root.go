// Package cli implements the onnxkit command-line interface.
//
// The CLI wraps the export engine for quick experiments: exporting a demo
// model under each weight strategy and inspecting the structure of an
// existing ONNX file. Loggers are passed through context.Context; all
// commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// SetVersion sets the version information displayed by --version, typically
// injected via ldflags at build time.
func SetVersion(v, c string) {
	version = v
	commit = c
}

// Execute runs the onnxkit CLI and returns an error if any command fails.
func Execute() error {
	var verbose bool

	root := &cobra.Command{
		Use:          "onnxkit",
		Short:        "Build and export ONNX models",
		Long:         `onnxkit builds computation graphs in Go and exports them as ONNX models, with pluggable weight placement (embedded, external blob, or discarded).`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("onnxkit %s\ncommit: %s\n", version, commit))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newExportCmd())
	root.AddCommand(newInspectCmd())

	return root.ExecuteContext(context.Background())
}
