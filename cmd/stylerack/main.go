// Package main provides the entry point for the stylerack CLI tool.
package main

import (
	"github.com/stylerack/stylerack/cmd/stylerack/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
