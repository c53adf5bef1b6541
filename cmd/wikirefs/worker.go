package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/wikirefs/wikirefs/internal/dispatch"
	"github.com/wikirefs/wikirefs/internal/log"
)

// NewWorkerCmd creates the hidden worker command.
// A worker reads one task as JSON on stdin, fetches and saves the
// references for its single title, and writes the outcome as JSON on
// stdout. The fetch command starts workers in procs mode; the command
// is not meant for interactive use.
func NewWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:    dispatch.WorkerCommand,
		Short:  "Process a single page title read from stdin",
		Hidden: true,
		RunE:   runWorkerCmd,
	}
}

// runWorkerCmd executes one worker task.
// A failed fetch still exits zero; the failure travels inside the
// outcome. A non-zero exit means the task protocol itself broke.
func runWorkerCmd(cmd *cobra.Command, _ []string) error {
	task, err := dispatch.ReadTask(cmd.InOrStdin())
	if err != nil {
		return err
	}

	logger := log.NewRedactLogger(os.Stderr, task.Verbose)

	outcome := dispatch.ExecuteTask(cmd.Context(), task, logger)

	return dispatch.WriteOutcome(cmd.OutOrStdout(), outcome)
}
