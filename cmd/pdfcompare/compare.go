package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/types"
)

var (
	compareWait      bool
	comparePollEvery time.Duration
)

var compareCmd = &cobra.Command{
	Use:   "compare <base.pdf> <compare.pdf>",
	Short: "Submit two PDF files for comparison",
	Long: `Submit a comparison job for the given base and compare PDF files and
print the assigned job ID. With --wait, ticks the scheduler itself and
blocks until the job reaches a terminal state, then prints the result.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&compareWait, "wait", false, "Block until the job completes, driving the scheduler locally")
	compareCmd.Flags().DurationVar(&comparePollEvery, "poll-interval", 200*time.Millisecond, "How often to tick the scheduler while waiting")
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger()
	sched, repo, err := buildScheduler(ctx, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	id, err := sched.Submit(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("submitting comparison: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "submitted comparison %s\n", id)

	if !compareWait {
		return nil
	}

	ticker := time.NewTicker(comparePollEvery)
	defer ticker.Stop()

	for {
		sched.Tick(ctx)

		c, err := repo.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("looking up comparison %s: %w", id, err)
		}
		if c.Status.Terminal() {
			printComparison(cmd, c)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func printComparison(cmd *cobra.Command, c types.Comparison) {
	s := newStyles(colorEnabled())
	out := cmd.OutOrStdout()

	statusStyle := s.ok
	if c.Status == types.StatusFailed {
		statusStyle = s.fail
	}

	fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Job:"), c.ID)
	fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Status:"), statusStyle.Sprint(string(c.Status)))
	if c.StatusMessage != "" {
		fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Message:"), c.StatusMessage)
	}
	fmt.Fprintf(out, "%s %d matched, %d unmatched base, %d unmatched compare, %d identical\n",
		s.heading.Sprint("Pages:"),
		c.Summary.MatchedPageCount, c.Summary.UnmatchedBaseCount, c.Summary.UnmatchedCompareCount, c.Summary.IdenticalCount)
	fmt.Fprintf(out, "%s %.3f\n", s.heading.Sprint("Overall similarity:"), c.Summary.OverallSimilarity)
	fmt.Fprintf(out, "%s %d\n", s.heading.Sprint("Total differences:"), c.Summary.TotalDifferences)
}
