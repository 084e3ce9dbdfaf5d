package repository

import (
	"context"
	"sync"

	"github.com/noah-isme/science-hub-api/internal/models"
)

// HistoryRepository stores recent activity, most recent first.
type HistoryRepository struct {
	mu  sync.Mutex
	col *Collection[models.HistoryItem]
}

// NewHistoryRepository constructs a HistoryRepository.
func NewHistoryRepository(store RecordStore) *HistoryRepository {
	return &HistoryRepository{col: NewCollection[models.HistoryItem](store, KeyHistory)}
}

// List returns the stored items.
func (r *HistoryRepository) List(ctx context.Context) ([]models.HistoryItem, error) {
	return r.col.All(ctx)
}

// Mutate loads the items, lets fn rewrite them and persists the result.
func (r *HistoryRepository) Mutate(ctx context.Context, fn func([]models.HistoryItem) []models.HistoryItem) ([]models.HistoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}
	items = fn(items)
	if err := r.col.Save(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Clear drops the whole history.
func (r *HistoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.col.Clear(ctx)
}
