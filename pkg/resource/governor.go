// Package resource implements the C2 resource governor: a memory probe,
// batch-size advisor, pressure-response hints, and a scratch-spill
// scoped resource. All pressure actions are advisory — spec §9 requires
// that disabling them never change correctness, only pacing.
package resource

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/config"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/logging"
)

// Governor tracks process memory, advises batch sizes, paces
// memory-heavy work, and spills oversized buffers to a scratch
// directory. A Governor is safe for concurrent use.
type Governor struct {
	cfg    config.MemoryConfig
	scratchDir string
	logger logging.Logger

	// fallbackMax is used when the runtime reports no soft memory limit
	// (GOMEMLIMIT unset), since Go exposes no absolute ceiling otherwise.
	fallbackMax uint64

	limiter *rate.Limiter
}

// Option configures a Governor at construction.
type Option func(*Governor)

// WithFallbackMax sets the ceiling used for Stats.Max when no soft
// memory limit (GOMEMLIMIT) is configured for the process. Default: 4 GiB.
func WithFallbackMax(bytes uint64) Option {
	return func(g *Governor) { g.fallbackMax = bytes }
}

// New creates a Governor backed by cfg's memory thresholds and scratch
// directory. logger may be nil (logging.Noop is used).
func New(cfg config.Config, logger logging.Logger, opts ...Option) *Governor {
	if logger == nil {
		logger = logging.Noop{}
	}
	g := &Governor{
		cfg:         cfg.Memory,
		scratchDir:  cfg.ScratchDir,
		logger:      logger,
		fallbackMax: 4 << 30, // 4 GiB
		// Pacing starts unlimited; every OptimalBatchSize call re-tunes
		// this limiter's rate and burst in place (see retune), grounded on
		// the rate-limited middleware pattern in
		// davrot-gogotex/pkg/middleware/rate_limit.go.
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	return g
}

// ScratchDir returns the configured scratch directory, creating it if
// necessary.
func (g *Governor) ScratchDir() (string, error) {
	if err := os.MkdirAll(g.scratchDir, 0o755); err != nil {
		return "", err
	}
	return g.scratchDir, nil
}

// scratchPrefix is the shared filename prefix spilled files carry, so
// orphan cleanup can reclaim them by a plain prefix scan regardless of
// which job wrote them (spec §6, "Scratch file layout").
const scratchPrefix = "temp-content-"

func (g *Governor) nextScratchName() string {
	return scratchPrefix + uuid.NewString() + ".tmp"
}

func (g *Governor) scratchPath(name string) (string, error) {
	dir, err := g.ScratchDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// SweepOrphans deletes scratch files older than olderThan, regardless of
// which job created them. This supplements the spec's naming scheme
// (§4.2/§6) with an actual recovery path, invoked once per stall-sweep
// cycle by the scheduler (see SPEC_FULL.md "Supplemented features").
func (g *Governor) SweepOrphans(olderThan time.Duration) (removed int, err error) {
	dir, err := g.ScratchDir()
	if err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-olderThan)
	for _, e := range entries {
		if e.IsDir() || len(e.Name()) < len(scratchPrefix) || e.Name()[:len(scratchPrefix)] != scratchPrefix {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if rmErr := os.Remove(filepath.Join(dir, e.Name())); rmErr == nil {
				removed++
			}
		}
	}
	return removed, nil
}
