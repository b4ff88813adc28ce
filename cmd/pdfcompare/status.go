package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show the current status of a comparison job",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	_, repo, err := buildScheduler(ctx, newLogger())
	if err != nil {
		return err
	}
	defer repo.Close()

	c, err := repo.FindByID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("comparison %s: %w", args[0], err)
	}

	printComparison(cmd, c)
	return nil
}
