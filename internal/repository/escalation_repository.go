package repository

import (
	"context"
	"sync"

	"github.com/noah-isme/science-hub-api/internal/models"
)

// EscalationRepository holds review requests that never reached the remote sink.
type EscalationRepository struct {
	mu  sync.Mutex
	col *Collection[models.PendingEscalation]
}

// NewEscalationRepository constructs an EscalationRepository.
func NewEscalationRepository(store RecordStore) *EscalationRepository {
	return &EscalationRepository{col: NewCollection[models.PendingEscalation](store, KeyPendingUploads)}
}

// Append queues one escalation.
func (r *EscalationRepository) Append(ctx context.Context, escalation models.PendingEscalation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending, err := r.col.All(ctx)
	if err != nil {
		return err
	}
	return r.col.Save(ctx, append(pending, escalation))
}

// List returns the queued escalations, oldest first.
func (r *EscalationRepository) List(ctx context.Context) ([]models.PendingEscalation, error) {
	return r.col.All(ctx)
}
