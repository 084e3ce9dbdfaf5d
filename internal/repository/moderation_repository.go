package repository

import (
	"context"
	"sync"

	"github.com/noah-isme/science-hub-api/internal/models"
)

// ModerationRepository manages the admin review queue.
type ModerationRepository struct {
	mu  sync.Mutex
	col *Collection[models.ModerationRecord]
}

// NewModerationRepository constructs a ModerationRepository.
func NewModerationRepository(store RecordStore) *ModerationRepository {
	return &ModerationRepository{col: NewCollection[models.ModerationRecord](store, KeySubmissions)}
}

// List returns every record in stored order.
func (r *ModerationRepository) List(ctx context.Context) ([]models.ModerationRecord, error) {
	return r.col.All(ctx)
}

// FindByID returns the record with the given id.
func (r *ModerationRepository) FindByID(ctx context.Context, id string) (*models.ModerationRecord, error) {
	records, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, ErrNotFound
}

// SeedIfEmpty stores the fixtures only when the queue holds no record. It
// reports whether seeding happened.
func (r *ModerationRepository) SeedIfEmpty(ctx context.Context, fixtures []models.ModerationRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.col.All(ctx)
	if err != nil {
		return false, err
	}
	if len(records) > 0 {
		return false, nil
	}
	return true, r.col.Save(ctx, fixtures)
}

// Update applies fn to the stored record and persists the result.
func (r *ModerationRepository) Update(ctx context.Context, id string, fn func(*models.ModerationRecord) error) (*models.ModerationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID != id {
			continue
		}
		if err := fn(&records[i]); err != nil {
			return nil, err
		}
		if err := r.col.Save(ctx, records); err != nil {
			return nil, err
		}
		updated := records[i]
		return &updated, nil
	}
	return nil, ErrNotFound
}

// Delete removes the record. It reports whether something was removed.
func (r *ModerationRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.col.All(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]models.ModerationRecord, 0, len(records))
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if err := r.col.Save(ctx, kept); err != nil {
		return false, err
	}
	return len(kept) < len(records), nil
}
