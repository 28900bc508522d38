// Command loam validates binding config files and checks backend health.
package main

import (
	"fmt"
	"os"

	"github.com/loamdb/loam/internal/cli"

	// Linked backends register themselves with the adapter registry.
	_ "github.com/loamdb/loam/adapter/sqlite"
	_ "github.com/loamdb/loam/adapter/surreal"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
