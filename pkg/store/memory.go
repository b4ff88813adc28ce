package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/types"
)

// MemoryRepository implements ComparisonRepository with an in-memory
// map. No CGO, no network — used by tests and the demo CLI.
type MemoryRepository struct {
	mu          sync.RWMutex
	comparisons map[string]types.Comparison
}

// NewMemory creates a new in-memory repository.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{comparisons: make(map[string]types.Comparison)}
}

// FindByStatus implements ComparisonRepository.
func (m *MemoryRepository) FindByStatus(ctx context.Context, statuses ...types.Status) ([]types.Comparison, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	want := make(map[types.Status]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}

	var out []types.Comparison
	for _, c := range m.comparisons {
		if want[c.Status] {
			out = append(out, c)
		}
	}
	return out, nil
}

// Save implements ComparisonRepository.
func (m *MemoryRepository) Save(ctx context.Context, c types.Comparison) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.comparisons[c.ID] = c
	return nil
}

// FindByID implements ComparisonRepository.
func (m *MemoryRepository) FindByID(ctx context.Context, id string) (types.Comparison, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.comparisons[id]
	if !ok {
		return types.Comparison{}, fmt.Errorf("comparison %s not found", id)
	}
	return c, nil
}

// Close implements ComparisonRepository.
func (m *MemoryRepository) Close() error {
	return nil
}
