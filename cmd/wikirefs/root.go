// Package main provides the entry point for the wikirefs CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wikirefs.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikirefs",
		Short: "Download Wikipedia reference links for related pages",
		Long: `wikirefs searches Wikipedia for pages related to a search term and saves
the external reference links of each page to a local .txt file.

Pages can be processed one at a time, in a bounded pool of goroutines,
or in separate worker processes. The results are identical in every
mode; only the scheduling differs.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())
	cmd.AddCommand(NewWorkerCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
