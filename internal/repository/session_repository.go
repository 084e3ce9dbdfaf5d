package repository

import (
	"context"

	"github.com/noah-isme/science-hub-api/internal/models"
)

// SessionRepository stores the signed-in teacher snapshot.
type SessionRepository struct {
	snap *Snapshot[models.SessionTeacher]
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(store RecordStore) *SessionRepository {
	return &SessionRepository{snap: NewSnapshot[models.SessionTeacher](store, KeyCurrentTeacher)}
}

// Current returns the snapshot or nil when nobody is signed in.
func (r *SessionRepository) Current(ctx context.Context) (*models.SessionTeacher, error) {
	return r.snap.Load(ctx)
}

// Save replaces the snapshot.
func (r *SessionRepository) Save(ctx context.Context, teacher models.SessionTeacher) error {
	return r.snap.Store(ctx, teacher)
}

// Clear removes the snapshot.
func (r *SessionRepository) Clear(ctx context.Context) error {
	return r.snap.Clear(ctx)
}
