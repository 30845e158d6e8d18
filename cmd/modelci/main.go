// Package main provides the modelci CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/regrolabs/modelci/internal/cli"
)

func main() {
	root := cli.NewRootCommand()

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
