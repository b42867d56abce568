// Package main is the entry point for the searchprov CLI.
//
// searchprov applies an ordered list of administrative requests to an
// Amazon OpenSearch Service domain, signing each with SigV4. It runs the
// same executor as the es-requests custom resource, outside Lambda.
//
// Commands: apply, render, version.
//
// For detailed usage information, run:
//
//	searchprov --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/searchprov/cmd/searchprov/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
