// Package main provides the CLI entrypoint for mapgen.
//
// mapgen plans struct mapping functions for Go:
//   - Loads Go packages (go/types) into a type graph
//   - Resolves which source value feeds every target property
//   - Selects the target constructor and a conversion for every value
//   - Exports the plans as YAML for an emitter
package main

import (
	"os"

	"mapgen/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		os.Exit(1)
	}
}
