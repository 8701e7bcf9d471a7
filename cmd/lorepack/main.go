// Package main provides the entry point for the lorepack CLI tool.
package main

import (
	"context"

	"github.com/guildhall/lorepack/cmd/lorepack/app"
	"github.com/guildhall/lorepack/cmd/lorepack/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// Context cancelled on SIGINT/SIGTERM for graceful shutdown
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := cmd.Execute(ctx, version, commit, date); err != nil {
		app.ExitOnError(err)
	}
}
