// Command queryc is the thin CLI entrypoint spec.md §2 "Ambient Stack"
// calls for: CLI flag parsing is explicitly out of core scope (spec.md
// §1), so this binary stays a single "compile" subcommand that loads a
// config.Workspace and calls pipeline.Build — no flag sprawl, matching
// the pack's own cobra usage (see DESIGN.md).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "queryc",
		Short: "Batch compiler for client-side query documents",
	}
	root.AddCommand(compileCmd())
	return root
}
