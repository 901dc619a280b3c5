// Package cmd provides the command-line interface for hygienesim.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// newRootCmd creates the base command with all the subcommands attached.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hygienesim",
		Short: "hygienesim simulates the hygiene inspection of restaurants.",
		Long: `hygienesim simulates a grid of restaurants that open, trade, ` +
			`close and are inspected once a week. It can run the model and ` +
			`read back the series it records.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newReportCmd())

	return rootCmd
}

// Execute runs the command line and exits with status 1 on any error.
func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}
}
