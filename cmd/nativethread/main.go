// Package main is the entry point for the nativethread CLI.
//
// Usage:
//
//	nativethread [flags] <command> [args]
//
// Commands:
//
//	run      - Launch a native routine on a hard-cancellable thread
//	runs     - List journaled runs
//	config   - Configuration management
//	version  - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/nativethread/cmd/nativethread/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
