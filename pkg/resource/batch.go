package resource

import (
	"context"
	"math"

	"golang.org/x/time/rate"
)

const (
	minBatch = 1
	maxBatch = 8

	// ramPerPageMultiplier is the observed RAM-per-page multiplier during
	// rendering (spec §4.2): a tunable constant, not a measurement.
	ramPerPageMultiplier = 5
)

// OptimalBatchSize computes how many pages may be processed
// concurrently, per spec §4.2:
//
//	avgPageBytes = (baseSize + compareSize) / (basePages + comparePages)
//	effective    = 0.7 * (max - used)
//	n            = clamp(floor(effective / (5 * avgPageBytes)), 1, 8)
//
// OptimalBatchSize also re-tunes the governor's pacing limiter so that
// Pace slows batch submission proportionally under memory pressure.
func (g *Governor) OptimalBatchSize(baseSize, compareSize int64, basePages, comparePages int) int {
	totalPages := basePages + comparePages
	if totalPages <= 0 {
		return minBatch
	}

	avgPageBytes := float64(baseSize+compareSize) / float64(totalPages)
	if avgPageBytes <= 0 {
		return maxBatch
	}

	stats := g.Probe()
	var effective float64
	if stats.Max > stats.Used {
		effective = 0.7 * float64(stats.Max-stats.Used)
	}

	n := int(math.Floor(effective / (ramPerPageMultiplier * avgPageBytes)))
	n = clamp(n, minBatch, maxBatch)

	g.retune(n)
	return n
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// retune adjusts the pacing limiter so that a smaller batch size (more
// memory pressure) paces work more slowly. A batch size at the maximum
// effectively disables pacing (rate.Inf).
func (g *Governor) retune(batchSize int) {
	if batchSize >= maxBatch {
		g.limiter.SetLimit(rate.Inf)
		return
	}
	// One permit every 1/batchSize seconds caps concurrent submission
	// rate roughly in proportion to the advised batch size.
	g.limiter.SetLimit(rate.Limit(batchSize))
	g.limiter.SetBurst(batchSize)
}

// Pace blocks until the governor's pacing limiter admits one unit of
// memory-heavy work, or ctx is done. Disabling the governor (never
// calling Pace) must not change correctness — only throughput — per
// spec §9.
func (g *Governor) Pace(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}
