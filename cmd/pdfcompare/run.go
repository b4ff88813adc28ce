package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduler loop until interrupted",
	Long: `Run drives the admission tick and stall sweep on their configured
intervals, processing pending comparison jobs against the configured
store until SIGINT or SIGTERM is received.`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		cancel()
	}()

	sched, repo, err := buildScheduler(ctx, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "pdfcompare scheduler running, press Ctrl-C to stop")

	if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
