package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/science-hub-api/internal/dto"
	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
)

const (
	historyCapacity    = 10
	defaultRecentItems = 5
)

type historyStore interface {
	List(ctx context.Context) ([]models.HistoryItem, error)
	Mutate(ctx context.Context, fn func([]models.HistoryItem) []models.HistoryItem) ([]models.HistoryItem, error)
	Clear(ctx context.Context) error
}

// HistoryService keeps the recent-activity list.
type HistoryService struct {
	items     historyStore
	validator *validator.Validate
	now       func() time.Time
}

// NewHistoryService constructs the service.
func NewHistoryService(items historyStore, validate *validator.Validate) *HistoryService {
	if validate == nil {
		validate = validator.New()
	}
	return &HistoryService{
		items:     items,
		validator: validate,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Record moves name to the front of the history, dropping older duplicates and
// anything past the capacity.
func (s *HistoryService) Record(ctx context.Context, req dto.RecordHistoryRequest) ([]models.HistoryItem, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "name is required")
	}

	kind := models.HistoryVisit
	if req.Resume {
		kind = models.HistoryResume
	}
	entry := models.HistoryItem{Name: req.Name, Timestamp: s.now(), Type: kind}

	items, err := s.items.Mutate(ctx, func(current []models.HistoryItem) []models.HistoryItem {
		next := make([]models.HistoryItem, 0, len(current)+1)
		next = append(next, entry)
		for _, item := range current {
			if item.Name != entry.Name {
				next = append(next, item)
			}
		}
		if len(next) > historyCapacity {
			next = next[:historyCapacity]
		}
		return next
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to record history")
	}
	return items, nil
}

// Recent returns the newest n items. Non-positive n means the default.
func (s *HistoryService) Recent(ctx context.Context, n int) ([]models.HistoryItem, error) {
	if n <= 0 {
		n = defaultRecentItems
	}
	if n > historyCapacity {
		n = historyCapacity
	}
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to read history")
	}
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

// Clear drops the whole history.
func (s *HistoryService) Clear(ctx context.Context) error {
	if err := s.items.Clear(ctx); err != nil {
		return appErrors.Internal(err, "failed to clear history")
	}
	return nil
}
