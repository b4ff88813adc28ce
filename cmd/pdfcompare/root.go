package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/config"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/logging"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/store"
)

var (
	verbose bool
	quiet   bool

	cfgPath     string
	storeDriver string
	storePath   string
	storeDSN    string
)

var rootCmd = &cobra.Command{
	Use:   "pdfcompare",
	Short: "pdfcompare - structural and visual PDF comparison service",
	Long: `pdfcompare detects sub-document boundaries and matching pages across
two PDF files, scoring each matched page pair by text and visual
similarity, and drives comparison jobs through a bounded worker pool.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to a matching-core config YAML file")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store-driver", "memory", "Comparison store backend: memory, sqlite, postgres")
	rootCmd.PersistentFlags().StringVar(&storePath, "store-path", "pdfcompare.db", "SQLite database path (store-driver=sqlite)")
	rootCmd.PersistentFlags().StringVar(&storeDSN, "store-dsn", "", "Postgres connection string (store-driver=postgres)")

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the matching core's config from --config, or falls
// back to config.Default() when the flag is empty.
func loadConfig() (config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(cfgPath)
}

// openStore builds the ComparisonRepository named by the --store-* flags.
func openStore(ctx context.Context) (store.ComparisonRepository, error) {
	cfg := store.Config{Driver: store.Driver(storeDriver), Path: storePath, DSN: storeDSN}
	repo, err := store.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening comparison store: %w", err)
	}
	return repo, nil
}

// newLogger builds the logging.Logger implied by --verbose/--quiet.
func newLogger() logging.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	return logging.New(level)
}
