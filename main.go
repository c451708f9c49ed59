// Package main is the entry point for the ob CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/danielolaszy/ob/cmd"
	"github.com/danielolaszy/ob/internal/logging"
)

// main executes the root command. Any error is printed as a single line and
// the process exits with status 1.
func main() {
	if err := cmd.Execute(); err != nil {
		logging.Debug("command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "ob: %v\n", err)
		os.Exit(1)
	}
}
