package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/science-hub-api/internal/dto"
	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
)

// ContentRepository stores published materials. The GitHub client implements it.
type ContentRepository interface {
	PutFile(ctx context.Context, filePath string, content []byte, message string) (*models.PublishResult, error)
	ListFiles(ctx context.Context, dir string) ([]models.ContentFile, error)
	ReadFile(ctx context.Context, filePath string) ([]byte, error)
}

type submissionStamper interface {
	Get(ctx context.Context, id string) (*models.ModerationRecord, error)
	markPublished(ctx context.Context, id, url string) (*models.ModerationRecord, error)
}

var (
	materialDirs = map[models.ResourceType]string{
		models.ResourcePDF:    "docs/pdf",
		models.ResourceNotes:  "docs/handpdf",
		models.ResourceVideo:  "docs/videos",
		models.ResourceCourse: "docs/courses",
	}
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]`)
	slugDashes   = regexp.MustCompile(`-+`)
)

// materialMetadata wraps video and course content when published.
type materialMetadata struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Subject        string      `json:"subject"`
	Class          string      `json:"class"`
	Year           string      `json:"year"`
	Language       string      `json:"language"`
	Teacher        string      `json:"teacher"`
	Email          string      `json:"email"`
	SubmittedAt    time.Time   `json:"submittedAt"`
	ApprovedAt     time.Time   `json:"approvedAt"`
	Videos         interface{} `json:"videos,omitempty"`
	Platform       string      `json:"platform,omitempty"`
	Duration       string      `json:"duration,omitempty"`
	CourseData     interface{} `json:"courseData,omitempty"`
	Provider       string      `json:"provider,omitempty"`
	CourseDuration string      `json:"courseDuration,omitempty"`
	Link           *string     `json:"link,omitempty"`
}

// PublisherService writes approved materials to the content repository.
type PublisherService struct {
	content     ContentRepository
	submissions submissionStamper
	events      EventPublisher
	logger      *zap.Logger
	metrics     workflowRecorder
	now         func() time.Time
}

// NewPublisherService constructs the service. A nil content repository makes
// every publish fail and every listing empty.
func NewPublisherService(content ContentRepository, submissions *ModerationService, events EventPublisher, logger *zap.Logger, metrics workflowRecorder) *PublisherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublisherService{
		content:     content,
		submissions: submissions,
		events:      events,
		logger:      logger,
		metrics:     recorderOrNoop(metrics),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SanitizeFilename turns a title into a file slug.
func SanitizeFilename(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// MaterialPath returns where a record of the given type and title is stored.
func MaterialPath(resourceType models.ResourceType, title string) (string, error) {
	dir, ok := materialDirs[resourceType]
	if !ok {
		return "", validationError(nil, fmt.Sprintf("unknown resource type %q", resourceType))
	}
	slug := SanitizeFilename(title)
	if slug == "" {
		return "", validationError(nil, "title has no filename-safe characters")
	}
	return path.Join(dir, slug+".json"), nil
}

// Publish writes the material to the content repository, replacing any file at
// the same path.
func (s *PublisherService) Publish(ctx context.Context, record models.ModerationRecord, content json.RawMessage) (*models.PublishResult, error) {
	filePath, err := MaterialPath(record.ResourceType, record.MaterialTitle)
	if err != nil {
		return nil, err
	}
	body, err := s.materialBody(record, content)
	if err != nil {
		return nil, validationError(err, "invalid material content")
	}
	if s.content == nil {
		s.metrics.RecordWorkflow("publish", "failure")
		return nil, appErrors.Clone(appErrors.ErrRemotePublishFailed, "content repository not configured")
	}

	message := fmt.Sprintf("Add %s: %s", record.ResourceType, record.MaterialTitle)
	result, err := s.content.PutFile(ctx, filePath, body, message)
	if err != nil {
		s.metrics.RecordWorkflow("publish", "failure")
		s.logger.Error("publish failed", zap.String("path", filePath), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrRemotePublishFailed.Code, appErrors.ErrRemotePublishFailed.Status, err.Error())
	}
	s.metrics.RecordWorkflow("publish", "success")
	return result, nil
}

// PublishSubmission publishes a queued record and stamps it approved with the
// resulting URL.
func (s *PublisherService) PublishSubmission(ctx context.Context, id string, req dto.PublishRequest) (*dto.PublishResponse, error) {
	if len(req.Content) == 0 {
		return nil, validationError(nil, "content is required")
	}
	record, err := s.submissions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	result, err := s.Publish(ctx, *record, req.Content)
	if err != nil {
		return nil, err
	}
	stamped, err := s.submissions.markPublished(ctx, id, result.URL)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(ctx, models.NotificationEvent{
			Type:         models.EventMaterialPublished,
			TeacherEmail: stamped.TeacherEmail,
			ResourceID:   stamped.ID,
			Title:        stamped.MaterialTitle,
			Status:       stamped.Status,
			Link:         result.URL,
			OccurredAt:   s.now(),
		})
	}
	return &dto.PublishResponse{PublishResult: *result, Record: stamped}, nil
}

// ListPublished returns the decoded materials of one type. Failures degrade to
// an empty list.
func (s *PublisherService) ListPublished(ctx context.Context, resourceType models.ResourceType) ([]json.RawMessage, error) {
	dir, ok := materialDirs[resourceType]
	if !ok {
		return nil, validationError(nil, fmt.Sprintf("unknown resource type %q", resourceType))
	}
	materials := []json.RawMessage{}
	if s.content == nil {
		return materials, nil
	}

	files, err := s.content.ListFiles(ctx, dir)
	if err != nil {
		s.logger.Warn("list published materials failed", zap.String("dir", dir), zap.Error(err))
		return materials, nil
	}
	for _, f := range files {
		if !strings.HasSuffix(f.Name, ".json") {
			continue
		}
		raw, err := s.content.ReadFile(ctx, f.Path)
		if err != nil {
			s.logger.Warn("read published material failed", zap.String("path", f.Path), zap.Error(err))
			return []json.RawMessage{}, nil
		}
		if !json.Valid(raw) {
			s.logger.Warn("published material is not json", zap.String("path", f.Path))
			return []json.RawMessage{}, nil
		}
		materials = append(materials, json.RawMessage(raw))
	}
	return materials, nil
}

func (s *PublisherService) materialBody(record models.ModerationRecord, content json.RawMessage) ([]byte, error) {
	switch record.ResourceType {
	case models.ResourceVideo, models.ResourceCourse:
		meta := materialMetadata{
			Title:       record.MaterialTitle,
			Description: record.MaterialDescription,
			Subject:     record.MaterialSubject,
			Class:       record.MaterialClass,
			Year:        record.MaterialYear,
			Language:    record.MaterialLanguage,
			Teacher:     record.TeacherName,
			Email:       record.TeacherEmail,
			SubmittedAt: record.SubmittedAt,
			ApprovedAt:  s.now(),
		}
		payload := embeddedContent(content)
		if record.ResourceType == models.ResourceVideo {
			meta.Videos = payload
			meta.Platform = record.Platform
			if meta.Platform == "" {
				meta.Platform = "YouTube"
			}
			meta.Duration = record.Duration
		} else {
			meta.CourseData = payload
			meta.Provider = record.Provider
			meta.CourseDuration = record.CourseDuration
			meta.Link = record.CloudLink
		}
		return json.MarshalIndent(meta, "", "  ")
	default:
		var text string
		if err := json.Unmarshal(content, &text); err == nil {
			return []byte(text), nil
		}
		if !json.Valid(content) {
			return nil, errors.New("content is not valid json")
		}
		return []byte(content), nil
	}
}

// embeddedContent keeps structured content as-is and anything else as a string.
func embeddedContent(content json.RawMessage) interface{} {
	if json.Valid(content) {
		return content
	}
	return string(content)
}
