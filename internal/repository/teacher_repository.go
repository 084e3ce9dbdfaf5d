package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/noah-isme/science-hub-api/internal/models"
)

// TeacherRepository manages the teacher directory.
type TeacherRepository struct {
	mu  sync.Mutex
	col *Collection[models.Teacher]
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(store RecordStore) *TeacherRepository {
	return &TeacherRepository{col: NewCollection[models.Teacher](store, KeyTeachers)}
}

// List returns every teacher in registration order.
func (r *TeacherRepository) List(ctx context.Context) ([]models.Teacher, error) {
	return r.col.All(ctx)
}

// FindByID returns the teacher with the given id.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	teachers, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range teachers {
		if teachers[i].ID == id {
			return &teachers[i], nil
		}
	}
	return nil, ErrNotFound
}

// FindByEmail returns the teacher registered under the email, ignoring case.
func (r *TeacherRepository) FindByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	teachers, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range teachers {
		if strings.EqualFold(teachers[i].Email, email) {
			return &teachers[i], nil
		}
	}
	return nil, ErrNotFound
}

// Create appends a teacher.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	teachers, err := r.col.All(ctx)
	if err != nil {
		return err
	}
	for _, existing := range teachers {
		if existing.ID == teacher.ID {
			return fmt.Errorf("teacher %s already exists", teacher.ID)
		}
	}
	if teacher.Uploads == nil {
		teacher.Uploads = []string{}
	}
	teachers = append(teachers, *teacher)
	return r.col.Save(ctx, teachers)
}

// Update applies fn to the stored teacher and persists the result.
func (r *TeacherRepository) Update(ctx context.Context, id string, fn func(*models.Teacher) error) (*models.Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	teachers, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range teachers {
		if teachers[i].ID != id {
			continue
		}
		if err := fn(&teachers[i]); err != nil {
			return nil, err
		}
		if err := r.col.Save(ctx, teachers); err != nil {
			return nil, err
		}
		updated := teachers[i]
		return &updated, nil
	}
	return nil, ErrNotFound
}

// AppendUpload adds an upload id to the teacher's owned list.
func (r *TeacherRepository) AppendUpload(ctx context.Context, teacherID, uploadID string) error {
	_, err := r.Update(ctx, teacherID, func(t *models.Teacher) error {
		t.Uploads = append(t.Uploads, uploadID)
		return nil
	})
	return err
}
