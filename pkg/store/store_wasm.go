//go:build wasm

package store

import "context"

// New always returns an in-memory repository for WASM builds: neither
// modernc.org/sqlite's file VFS nor a Postgres network connection is
// available in that environment.
func New(ctx context.Context, cfg Config) (ComparisonRepository, error) {
	return NewMemory(), nil
}
