package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/science-hub-api/internal/dto"
	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
	"github.com/noah-isme/science-hub-api/pkg/export"
)

type moderationStore interface {
	List(ctx context.Context) ([]models.ModerationRecord, error)
	FindByID(ctx context.Context, id string) (*models.ModerationRecord, error)
	SeedIfEmpty(ctx context.Context, fixtures []models.ModerationRecord) (bool, error)
	Update(ctx context.Context, id string, fn func(*models.ModerationRecord) error) (*models.ModerationRecord, error)
	Delete(ctx context.Context, id string) (bool, error)
}

var moderationExportHeaders = []string{"ID", "Title", "Teacher", "Email", "Subject", "Class", "Year", "Type", "Status", "Submitted", "Link"}

// ModerationService manages the admin review queue.
type ModerationService struct {
	records moderationStore
	logger  *zap.Logger
	now     func() time.Time
}

// NewModerationService constructs the service.
func NewModerationService(records moderationStore, logger *zap.Logger) *ModerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModerationService{
		records: records,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Bootstrap seeds the sample records when the queue is empty.
func (s *ModerationService) Bootstrap(ctx context.Context) error {
	seeded, err := s.records.SeedIfEmpty(ctx, moderationFixtures())
	if err != nil {
		return appErrors.Internal(err, "failed to seed moderation queue")
	}
	if seeded {
		s.logger.Info("moderation queue seeded with sample records")
	}
	return nil
}

// All returns every record.
func (s *ModerationService) All(ctx context.Context) ([]models.ModerationRecord, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list submissions")
	}
	return records, nil
}

// Get returns one record.
func (s *ModerationService) Get(ctx context.Context, id string) (*models.ModerationRecord, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.ErrSubmissionNotFound
		}
		return nil, appErrors.Internal(err, "failed to load submission")
	}
	return record, nil
}

// ByStatus returns the records in the given status.
func (s *ModerationService) ByStatus(ctx context.Context, status models.UploadStatus) ([]models.ModerationRecord, error) {
	return s.Filter(ctx, models.ModerationFilter{Status: status})
}

// Filter returns the records matching every set criterion.
func (s *ModerationService) Filter(ctx context.Context, filter models.ModerationFilter) ([]models.ModerationRecord, error) {
	records, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.ModerationRecord, 0, len(records))
	for _, r := range records {
		if filter.Matches(r) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// UniqueSubjects lists distinct subjects in first-seen order.
func (s *ModerationService) UniqueSubjects(ctx context.Context) ([]string, error) {
	return s.unique(ctx, func(r models.ModerationRecord) string { return r.MaterialSubject })
}

// UniqueClasses lists distinct classes in first-seen order.
func (s *ModerationService) UniqueClasses(ctx context.Context) ([]string, error) {
	return s.unique(ctx, func(r models.ModerationRecord) string { return r.MaterialClass })
}

// UniqueTypes lists distinct resource types in first-seen order.
func (s *ModerationService) UniqueTypes(ctx context.Context) ([]string, error) {
	return s.unique(ctx, func(r models.ModerationRecord) string { return string(r.ResourceType) })
}

// Facets bundles the distinct filter values.
func (s *ModerationService) Facets(ctx context.Context) (*dto.ModerationFacets, error) {
	subjects, err := s.UniqueSubjects(ctx)
	if err != nil {
		return nil, err
	}
	classes, err := s.UniqueClasses(ctx)
	if err != nil {
		return nil, err
	}
	types, err := s.UniqueTypes(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ModerationFacets{Subjects: subjects, Classes: classes, Types: types}, nil
}

func (s *ModerationService) unique(ctx context.Context, field func(models.ModerationRecord) string) ([]string, error) {
	records, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(records))
	values := make([]string, 0, len(records))
	for _, r := range records {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values, nil
}

// Stats counts records by status.
func (s *ModerationService) Stats(ctx context.Context) (*models.StatusStats, error) {
	records, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var stats models.StatusStats
	for _, r := range records {
		stats.Count(r.Status)
	}
	return &stats, nil
}

// Update merges the provided fields into the record. It reports false when the
// record does not exist.
func (s *ModerationService) Update(ctx context.Context, id string, update models.ModerationUpdate) (bool, error) {
	if update.ResourceType != nil && !update.ResourceType.Valid() {
		return false, validationError(nil, fmt.Sprintf("unknown resource type %q", *update.ResourceType))
	}
	if update.Status != nil && !update.Status.Valid() {
		return false, validationError(nil, fmt.Sprintf("unknown status %q", *update.Status))
	}
	_, err := s.records.Update(ctx, id, func(r *models.ModerationRecord) error {
		update.Apply(r)
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, appErrors.Internal(err, "failed to update submission")
	}
	return true, nil
}

// Delete removes the record and reports whether it existed.
func (s *ModerationService) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := s.records.Delete(ctx, id)
	if err != nil {
		return false, appErrors.Internal(err, "failed to delete submission")
	}
	return removed, nil
}

// Export renders the filtered queue as CSV or PDF.
func (s *ModerationService) Export(ctx context.Context, query dto.ModerationExportQuery) (*dto.ExportFile, error) {
	exporter, err := export.ForFormat(query.Format)
	if err != nil {
		return nil, validationError(err, err.Error())
	}
	records, err := s.Filter(ctx, query.ModerationFilter)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		link := ""
		if r.CloudLink != nil {
			link = *r.CloudLink
		}
		rows = append(rows, map[string]string{
			"ID":        r.ID,
			"Title":     r.MaterialTitle,
			"Teacher":   r.TeacherName,
			"Email":     r.TeacherEmail,
			"Subject":   r.MaterialSubject,
			"Class":     r.MaterialClass,
			"Year":      r.MaterialYear,
			"Type":      string(r.ResourceType),
			"Status":    string(r.Status),
			"Submitted": r.SubmittedAt.Format(time.RFC3339),
			"Link":      link,
		})
	}

	content, err := exporter.Render(export.Dataset{
		Title:   "Science Hub Submissions (" + strconv.Itoa(len(rows)) + ")",
		Headers: moderationExportHeaders,
		Rows:    rows,
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("submissions-%s.%s", s.now().Format("20060102-150405"), exporter.Extension()),
		ContentType: exporter.ContentType(),
		Content:     content,
	}, nil
}

// markPublished stamps a record once its material is in the content repository.
func (s *ModerationService) markPublished(ctx context.Context, id, url string) (*models.ModerationRecord, error) {
	approvedAt := s.now()
	status := models.StatusApproved
	update := models.ModerationUpdate{GitHubURL: &url, ApprovedAt: &approvedAt, Status: &status}
	record, err := s.records.Update(ctx, id, func(r *models.ModerationRecord) error {
		update.Apply(r)
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.ErrSubmissionNotFound
		}
		return nil, appErrors.Internal(err, "failed to stamp submission")
	}
	return record, nil
}
