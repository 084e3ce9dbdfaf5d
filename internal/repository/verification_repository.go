package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/noah-isme/science-hub-api/internal/models"
)

// VerificationRepository keeps at most one pending code per email.
type VerificationRepository struct {
	mu  sync.Mutex
	col *Collection[models.VerificationEntry]
}

// NewVerificationRepository constructs a VerificationRepository.
func NewVerificationRepository(store RecordStore) *VerificationRepository {
	return &VerificationRepository{col: NewCollection[models.VerificationEntry](store, KeyVerifications)}
}

// Put stores the entry, replacing any earlier one for the same email.
func (r *VerificationRepository) Put(ctx context.Context, entry models.VerificationEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.col.All(ctx)
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if !strings.EqualFold(e.Email, entry.Email) {
			kept = append(kept, e)
		}
	}
	kept = append(kept, entry)
	return r.col.Save(ctx, kept)
}

// Find returns the pending entry for the email.
func (r *VerificationRepository) Find(ctx context.Context, email string) (*models.VerificationEntry, error) {
	entries, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if strings.EqualFold(entries[i].Email, email) {
			return &entries[i], nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes the entry for the email. It reports whether one existed.
func (r *VerificationRepository) Delete(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.col.All(ctx)
	if err != nil {
		return false, err
	}
	kept := entries[:0]
	for _, e := range entries {
		if !strings.EqualFold(e.Email, email) {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return false, nil
	}
	return true, r.col.Save(ctx, kept)
}
