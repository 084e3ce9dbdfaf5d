package repository

import (
	"context"
	"sync"

	"github.com/noah-isme/science-hub-api/internal/models"
)

// NotificationRepository is a capped inbox of teacher notifications, newest first.
type NotificationRepository struct {
	mu       sync.Mutex
	col      *Collection[models.Notification]
	capacity int
}

// NewNotificationRepository constructs a NotificationRepository keeping at most
// capacity entries across all teachers.
func NewNotificationRepository(store RecordStore, capacity int) *NotificationRepository {
	if capacity <= 0 {
		capacity = 50
	}
	return &NotificationRepository{col: NewCollection[models.Notification](store, KeyNotifications), capacity: capacity}
}

// Prepend stores a notification and evicts the oldest beyond capacity.
func (r *NotificationRepository) Prepend(ctx context.Context, n models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.col.All(ctx)
	if err != nil {
		return err
	}
	items = append([]models.Notification{n}, items...)
	if len(items) > r.capacity {
		items = items[:r.capacity]
	}
	return r.col.Save(ctx, items)
}

// ListByTeacher returns a teacher's notifications, newest first.
func (r *NotificationRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Notification, error) {
	items, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]models.Notification, 0)
	for _, n := range items {
		if n.TeacherID == teacherID {
			owned = append(owned, n)
		}
	}
	return owned, nil
}
