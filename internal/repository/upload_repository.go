package repository

import (
	"context"
	"sync"

	"github.com/noah-isme/science-hub-api/internal/models"
)

// UploadRepository manages teacher submissions.
type UploadRepository struct {
	mu  sync.Mutex
	col *Collection[models.Upload]
}

// NewUploadRepository constructs an UploadRepository.
func NewUploadRepository(store RecordStore) *UploadRepository {
	return &UploadRepository{col: NewCollection[models.Upload](store, KeyUploads)}
}

// List returns every upload in submission order.
func (r *UploadRepository) List(ctx context.Context) ([]models.Upload, error) {
	return r.col.All(ctx)
}

// ListByTeacher returns the uploads owned by a teacher.
func (r *UploadRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Upload, error) {
	uploads, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]models.Upload, 0)
	for _, u := range uploads {
		if u.TeacherID == teacherID {
			owned = append(owned, u)
		}
	}
	return owned, nil
}

// FindByID returns the upload with the given id.
func (r *UploadRepository) FindByID(ctx context.Context, id string) (*models.Upload, error) {
	uploads, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range uploads {
		if uploads[i].ID == id {
			return &uploads[i], nil
		}
	}
	return nil, ErrNotFound
}

// Save inserts the upload or replaces the stored one with the same id.
func (r *UploadRepository) Save(ctx context.Context, upload models.Upload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	uploads, err := r.col.All(ctx)
	if err != nil {
		return err
	}
	for i := range uploads {
		if uploads[i].ID == upload.ID {
			uploads[i] = upload
			return r.col.Save(ctx, uploads)
		}
	}
	return r.col.Save(ctx, append(uploads, upload))
}

// Update applies fn to the stored upload and persists the result.
func (r *UploadRepository) Update(ctx context.Context, id string, fn func(*models.Upload) error) (*models.Upload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	uploads, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range uploads {
		if uploads[i].ID != id {
			continue
		}
		if err := fn(&uploads[i]); err != nil {
			return nil, err
		}
		if err := r.col.Save(ctx, uploads); err != nil {
			return nil, err
		}
		updated := uploads[i]
		return &updated, nil
	}
	return nil, ErrNotFound
}

// Stats counts uploads by status.
func (r *UploadRepository) Stats(ctx context.Context) (models.StatusStats, error) {
	uploads, err := r.col.All(ctx)
	if err != nil {
		return models.StatusStats{}, err
	}
	var stats models.StatusStats
	for _, u := range uploads {
		stats.Count(u.Status)
	}
	return stats, nil
}
