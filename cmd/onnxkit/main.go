// Package main provides the onnxkit CLI.
package main

import (
	"os"

	"github.com/born-ml/onnxkit/internal/cli"
)

// Injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cli.SetVersion(version, commit)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
