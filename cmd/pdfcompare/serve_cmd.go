package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/serve"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming NDJSON server accepting submit/status/tick requests",
	Long: `Run pdfcompare as a long-lived process that accepts comparison
submit/status/tick requests via stdin and emits NDJSON responses via
stdout. The process loads the configured store and comparison config
once at startup and serves requests until stdin closes or SIGTERM is
received.`,
	RunE: runServeCmd,
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		cancel()
	}()

	sched, repo, err := buildScheduler(ctx, newLogger())
	if err != nil {
		return err
	}
	defer repo.Close()

	srv := serve.NewServer(sched, repo, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
