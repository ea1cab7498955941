// Package cmd defines and implements the CLI commands for the webrank
// executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/linkgraph/webrank/internal/logging"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webrank",
		Short: "PageRank analysis over an object-storage web corpus",
		Long: `webrank downloads every page of a web corpus stored as HTML objects
in a cloud storage bucket, builds the link graph in memory, and runs the
iterative PageRank computation to convergence.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default uses built-in defaults and WEBRANK_* env vars)")

	cmd.AddCommand(newRankCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute is the main entry point. It installs signal-driven cancellation
// so an interrupt aborts the fetch phase cleanly.
func Execute() {
	if err := logging.Init(false); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
