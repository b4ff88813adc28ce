package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/types"
)

func TestNewDefaultsToMemory(t *testing.T) {
	repo, err := New(context.Background(), Config{})
	require.NoError(t, err)
	require.NotNil(t, repo)
	defer repo.Close()

	var _ ComparisonRepository = repo
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: "oracle"})
	assert.Error(t, err)
}

func TestNewSQLiteRequiresPath(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: DriverSQLite})
	assert.Error(t, err)
}

func TestNewPostgresRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: DriverPostgres})
	assert.Error(t, err)
}

func TestMemoryImplementsComparisonRepository(t *testing.T) {
	var _ ComparisonRepository = (*MemoryRepository)(nil)
}

func TestSQLiteImplementsComparisonRepository(t *testing.T) {
	var _ ComparisonRepository = (*SQLiteRepository)(nil)
}

func TestPostgresImplementsComparisonRepository(t *testing.T) {
	var _ ComparisonRepository = (*PostgresRepository)(nil)
}

func TestRoundTripViaSQLite(t *testing.T) {
	dbPath := t.TempDir() + "/comparisons.db"
	repo, err := New(context.Background(), Config{Driver: DriverSQLite, Path: dbPath})
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	c := types.Comparison{
		ID:     "cmp-1",
		Status: types.StatusCompleted,
		Summary: types.Summary{
			MatchedPageCount:  3,
			IdenticalCount:    3,
			OverallSimilarity: 1.0,
		},
	}
	require.NoError(t, repo.Save(ctx, c))

	got, err := repo.FindByID(ctx, "cmp-1")
	require.NoError(t, err)
	assert.Equal(t, c.Status, got.Status)
	assert.Equal(t, c.Summary, got.Summary)
}
