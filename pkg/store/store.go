// Package store implements the ComparisonRepository collaborator named
// in spec §6: findByStatus, save, findById, each transactional. Three
// backends are provided — in-memory (tests, demos), SQLite via
// modernc.org/sqlite (single-node deployments), and Postgres via
// jackc/pgx/v5 (shared/production deployments) — selected by Config.Driver.
package store

import (
	"context"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/types"
)

// ComparisonRepository is the persistence contract consumed by the
// scheduler (C5). Implementations must make each call transactional:
// a Save either commits the whole Comparison (job + pairs + summary) or
// none of it.
type ComparisonRepository interface {
	// FindByStatus returns every Comparison currently in one of the
	// given statuses, in no particular order.
	FindByStatus(ctx context.Context, statuses ...types.Status) ([]types.Comparison, error)

	// Save upserts c, replacing any previously persisted record with
	// the same ID.
	Save(ctx context.Context, c types.Comparison) error

	// FindByID returns the Comparison with the given ID, or an error if
	// none exists.
	FindByID(ctx context.Context, id string) (types.Comparison, error)

	// Close releases the repository's underlying resources.
	Close() error
}

// Driver selects a ComparisonRepository backend.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Config configures repository construction.
type Config struct {
	Driver Driver

	// Path is the SQLite database file path (DriverSQLite only). Use
	// ":memory:" for a SQLite database held only in RAM.
	Path string

	// DSN is the Postgres connection string (DriverPostgres only).
	DSN string
}

// New constructs a ComparisonRepository for the given configuration.
// Platform-specific wiring lives in store_default.go / store_wasm.go.
