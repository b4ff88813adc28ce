package types

import "time"

// Comparison is the top-level comparison job record: identifier, status,
// timestamps, the matched document pairs, and the aggregated summary.
// The scheduler (pkg/scheduler) owns its lifecycle; the matchers
// (pkg/docmatcher, pkg/pagematcher) populate DocumentPairs; the
// repository (pkg/store) persists it between states.
type Comparison struct {
	ID            string
	Status        Status
	StartTime     time.Time
	EndTime       time.Time // zero value until terminal
	StatusMessage string

	// BasePath and ComparePath locate the two files a worker loads via
	// Parser when it picks this job up; set at submission time and never
	// modified afterwards.
	BasePath    string
	ComparePath string

	DocumentPairs []DocumentPair
	Summary       Summary

	// LeaseToken records the lease of the worker that last persisted this
	// job. The ownership check itself is made against the scheduler's
	// in-memory active set: a worker persists any state only while that
	// set still maps the job to the lease it was handed at dispatch time,
	// so a stale worker that outlives a stall-reset can't clobber the
	// reset job (see the Open Question resolution in DESIGN.md).
	LeaseToken string
}

// HasEndTime reports whether EndTime has been set.
func (c Comparison) HasEndTime() bool {
	return !c.EndTime.IsZero()
}

// Stalled reports whether the job has been in a non-terminal,
// in-progress state since before the given deadline. A zero StartTime
// (never started) is never considered stalled.
func (c Comparison) Stalled(deadline time.Time) bool {
	if c.StartTime.IsZero() {
		return false
	}
	if !c.Status.Active() {
		return false
	}
	return c.StartTime.Before(deadline)
}

// BuildSummary recomputes c.Summary from c.DocumentPairs, per invariant 4
// in spec §3: summary.totalDifferences = Σ DocumentPair.totalDifferences
// and matchedPageCount = count of mappings with both sides present.
// OverallSimilarity is the mean mapping score across matched pages, with
// unmatched pages on either side counting as zero similarity.
func (c *Comparison) BuildSummary() {
	var s Summary
	var scoreSum float64
	for _, pair := range c.DocumentPairs {
		s.TotalDifferences += pair.Counts.Total
		if pair.Counts.Total > 0 {
			s.WithDifferences++
		}
		for _, m := range pair.Mappings {
			switch {
			case m.Matched():
				s.MatchedPageCount++
				scoreSum += m.Score
				if m.DifferenceCount == 0 {
					s.IdenticalCount++
				}
			case m.BasePageNumber == NoPage:
				s.UnmatchedCompareCount++
			default:
				s.UnmatchedBaseCount++
			}
		}
	}
	total := s.MatchedPageCount + s.UnmatchedBaseCount + s.UnmatchedCompareCount
	if total > 0 {
		s.OverallSimilarity = scoreSum / float64(total)
	}
	c.Summary = s
}
