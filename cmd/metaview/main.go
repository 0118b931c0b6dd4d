// Package main provides the metaview CLI.
package main

import (
	"os"

	"github.com/metaview-labs/metaview/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
