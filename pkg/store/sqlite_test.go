//go:build !wasm

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/types"
)

func TestSQLiteSaveAndFindByID(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := NewSQLite(dbPath)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := types.Comparison{
		ID:            "cmp-1",
		Status:        types.StatusProcessing,
		StartTime:     start,
		StatusMessage: "running",
		LeaseToken:    "lease-abc",
		BasePath:      "/data/base.pdf",
		ComparePath:   "/data/compare.pdf",
		DocumentPairs: []types.DocumentPair{
			{Score: 0.9, Mappings: []types.PageMapping{{BasePageNumber: 1, ComparePageNumber: 1, Score: 0.9}}},
		},
		Summary: types.Summary{MatchedPageCount: 1, OverallSimilarity: 0.9},
	}

	require.NoError(t, repo.Save(ctx, c))

	got, err := repo.FindByID(ctx, "cmp-1")
	require.NoError(t, err)
	assert.Equal(t, c.Status, got.Status)
	assert.Equal(t, c.StatusMessage, got.StatusMessage)
	assert.Equal(t, c.LeaseToken, got.LeaseToken)
	assert.Equal(t, c.BasePath, got.BasePath)
	assert.Equal(t, c.ComparePath, got.ComparePath)
	assert.True(t, c.StartTime.Equal(got.StartTime))
	require.Len(t, got.DocumentPairs, 1)
	assert.Equal(t, c.DocumentPairs[0].Score, got.DocumentPairs[0].Score)
	assert.Equal(t, c.Summary, got.Summary)
}

func TestSQLiteSaveUpsertsOnConflict(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := NewSQLite(dbPath)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, types.Comparison{ID: "cmp-1", Status: types.StatusPending}))
	require.NoError(t, repo.Save(ctx, types.Comparison{ID: "cmp-1", Status: types.StatusCompleted}))

	got, err := repo.FindByID(ctx, "cmp-1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, got.Status)
}

func TestSQLiteFindByStatus(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := NewSQLite(dbPath)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, types.Comparison{ID: "p1", Status: types.StatusPending}))
	require.NoError(t, repo.Save(ctx, types.Comparison{ID: "p2", Status: types.StatusPending}))
	require.NoError(t, repo.Save(ctx, types.Comparison{ID: "f1", Status: types.StatusFailed}))

	pending, err := repo.FindByStatus(ctx, types.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestSQLiteFindByIDMissing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := NewSQLite(dbPath)
	require.NoError(t, err)
	defer repo.Close()

	_, err = repo.FindByID(context.Background(), "missing")
	assert.Error(t, err)
}
