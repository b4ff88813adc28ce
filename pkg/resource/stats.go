package resource

import "runtime/debug"

// Stats reports process memory usage, matching spec §4.2's
// "{used, free, max}" memory probe shape.
type Stats struct {
	Used uint64
	Free uint64
	Max  uint64
}

// Probe reports current memory usage based on the runtime's allocator
// statistics. Max comes from the process's soft memory limit
// (GOMEMLIMIT / debug.SetMemoryLimit) when one is configured; otherwise
// it falls back to g.fallbackMax, since Go exposes no other notion of an
// absolute ceiling.
func (g *Governor) Probe() Stats {
	used := readHeapAlloc()

	max := g.fallbackMax
	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < int64(^uint64(0)>>1) {
		max = uint64(limit)
	}

	var free uint64
	if max > used {
		free = max - used
	}

	return Stats{Used: used, Free: free, Max: max}
}

// PressureLevel classifies how close Used is to the configured
// thresholds.
type PressureLevel int

const (
	PressureNone PressureLevel = iota
	PressureHigh
	PressureVeryHigh
	PressureCritical
)

func (p PressureLevel) String() string {
	switch p {
	case PressureHigh:
		return "high"
	case PressureVeryHigh:
		return "very-high"
	case PressureCritical:
		return "critical"
	default:
		return "none"
	}
}

// Level classifies the given Stats against the governor's configured
// thresholds (spec §4.2, "Pressure response").
func (g *Governor) Level(s Stats) PressureLevel {
	usedMiB := s.Used / (1 << 20)
	switch {
	case usedMiB >= g.cfg.CriticalMiB:
		return PressureCritical
	case usedMiB >= g.cfg.VeryHighMiB:
		return PressureVeryHigh
	case usedMiB >= g.cfg.HighMiB:
		return PressureHigh
	default:
		return PressureNone
	}
}
