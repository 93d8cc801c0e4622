// Command fesca is the entry point for all three fesca roles: the data
// owner that ingests and shares a table, the data analyst that submits a
// query, and the computing node that evaluates circuits as part of the
// replicated protocol (spec.md §6).
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fesca-project/fesca/internal/logging"
)

func main() {
	root := newRootCmd()
	err := root.Execute()
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	if strings.Contains(err.Error(), "unknown command") {
		// spec.md §6: an unrecognised role exits 2, distinct from every
		// other role-specific or usage failure below.
		os.Exit(2)
	}
	os.Exit(1)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fesca",
		Short:         "Three-party secure computation engine for relational queries over secret-shared data",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Usage()
			return fmt.Errorf("missing role argument: choose one of data-owner, data-analyst, computing-node")
		},
	}
	cmd.AddCommand(newDataOwnerCmd())
	cmd.AddCommand(newDataAnalystCmd())
	cmd.AddCommand(newComputingNodeCmd())
	return cmd
}

func rootLogger() *zap.Logger {
	return logging.FromEnv()
}
