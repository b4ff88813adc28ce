package resource

import (
	"runtime/debug"
	"time"

	"github.com/dustin/go-humanize"
)

// orphanSweepAge is how old a scratch file must be before the
// pressure-triggered cleanup reclaims it.
const orphanSweepAge = 30 * time.Minute

// CheckPressure probes memory and takes the advisory action for the
// resulting level, per spec §4.2:
//
//	high       -> allocator hint
//	very-high  -> allocator hint + scratch cleanup
//	critical   -> allocator hint + scratch cleanup + second hint
//
// All actions are side-effect-free on correctness (they only release
// memory back to the OS and delete orphaned scratch files); removing
// them changes throughput, never output, per spec §9.
func (g *Governor) CheckPressure() PressureLevel {
	stats := g.Probe()
	level := g.Level(stats)

	if level == PressureNone {
		return level
	}

	g.logger.Warn("memory pressure",
		"level", level.String(),
		"used", humanize.Bytes(stats.Used),
		"max", humanize.Bytes(stats.Max),
	)

	debug.FreeOSMemory()

	if level >= PressureVeryHigh {
		if removed, err := g.SweepOrphans(orphanSweepAge); err != nil {
			g.logger.Warn("scratch cleanup failed", "error", err)
		} else if removed > 0 {
			g.logger.Info("scratch cleanup reclaimed orphans", "count", removed)
		}
	}

	if level == PressureCritical {
		debug.FreeOSMemory()
	}

	return level
}
