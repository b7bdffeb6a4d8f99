package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// sweeperCmd runs the reconciliation loop on its own, for deployments that
// keep it out of the API process.
var sweeperCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Start the reconciliation sweeper",
	Long:  `Run the background loop that completes elapsed bookings and expires stale payments.`,
	Run: func(cmd *cobra.Command, args []string) {
		startSweeper()
	},
}

func startSweeper() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps.Sweeper.Start(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	deps.Logger.Info("received signal, stopping sweeper", "signal", sig)

	cancel()
	deps.Sweeper.Stop()

	if err := deps.DB.Close(); err != nil {
		deps.Logger.Error("database close error", "error", err)
	}
}
