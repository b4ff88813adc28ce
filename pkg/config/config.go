// Package config loads the matching core's tunables from YAML, the same
// way pkg/rule's loader reads titus's rule files with gopkg.in/yaml.v3.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable named in spec §6, plus the configurable
// text/visual blend weights per the Open Question resolution recorded
// in DESIGN.md.
type Config struct {
	MaxConcurrentComparisons int `yaml:"maxConcurrentComparisons"`

	TextSimilarityThreshold     float64 `yaml:"textSimilarityThreshold"`
	VisualSimilarityThreshold   float64 `yaml:"visualSimilarityThreshold"`
	CombinedSimilarityThreshold float64 `yaml:"combinedSimilarityThreshold"`
	MaxSamplePages              int     `yaml:"maxSamplePages"`
	SampleDPI                   int     `yaml:"sampleDPI"`

	// DocTextWeight + DocVisualWeight must sum to 1; used by the document
	// matcher's combined score (spec §4.3 step 4).
	DocTextWeight   float64 `yaml:"docTextWeight"`
	DocVisualWeight float64 `yaml:"docVisualWeight"`

	// PageTextWeight + PageVisualWeight must sum to 1; used by the page
	// matcher's pageSimilarity (spec §4.4).
	PageTextWeight   float64 `yaml:"pageTextWeight"`
	PageVisualWeight float64 `yaml:"pageVisualWeight"`

	Memory MemoryConfig `yaml:"memory"`

	ScratchDir string `yaml:"scratchDir"`

	TickInterval       time.Duration `yaml:"tickInterval"`
	StallSweepInterval time.Duration `yaml:"stallSweepInterval"`
	StallThreshold     time.Duration `yaml:"stallThreshold"`

	WorkerPoolSize int `yaml:"workerPoolSize"`
}

// MemoryConfig holds the governor's pressure thresholds, in MiB.
type MemoryConfig struct {
	HighMiB     uint64 `yaml:"highMiB"`
	VeryHighMiB uint64 `yaml:"veryHighMiB"`
	CriticalMiB uint64 `yaml:"criticalMiB"`
}

// Default returns the configuration with every default named in spec §6.
func Default() Config {
	return Config{
		MaxConcurrentComparisons: 2,

		TextSimilarityThreshold:     0.5,
		VisualSimilarityThreshold:   0.6,
		CombinedSimilarityThreshold: 0.55,
		MaxSamplePages:              3,
		SampleDPI:                   72,

		DocTextWeight:   0.7,
		DocVisualWeight: 0.3,

		PageTextWeight:   0.6,
		PageVisualWeight: 0.4,

		Memory: MemoryConfig{
			HighMiB:     1500,
			VeryHighMiB: 2500,
			CriticalMiB: 3500,
		},

		ScratchDir: defaultScratchDir(),

		TickInterval:       30 * time.Second,
		StallSweepInterval: 15 * time.Minute,
		StallThreshold:     30 * time.Minute,

		WorkerPoolSize: 4,
	}
}

func defaultScratchDir() string {
	return os.TempDir() + "/pdfcompare"
}

// Load reads a YAML file at path and overlays it onto Default(). A
// missing field in the file keeps its default value, matching the
// spec's framing that every configuration field is optional.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
