// Package main is the entry point for the oxc CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/oxcheck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
