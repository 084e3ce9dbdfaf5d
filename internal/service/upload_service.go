package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/science-hub-api/internal/dto"
	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
)

const (
	reviewPreviewLength = 500
	submitMessage       = "Upload submitted for review! Admin will contact you via email."
)

var reviewLabels = []string{"upload-review", "pending"}

type uploadStore interface {
	List(ctx context.Context) ([]models.Upload, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Upload, error)
	FindByID(ctx context.Context, id string) (*models.Upload, error)
	Save(ctx context.Context, upload models.Upload) error
	Update(ctx context.Context, id string, fn func(*models.Upload) error) (*models.Upload, error)
	Stats(ctx context.Context) (models.StatusStats, error)
}

type escalationStore interface {
	Append(ctx context.Context, escalation models.PendingEscalation) error
	List(ctx context.Context) ([]models.PendingEscalation, error)
}

// teacherSessions resolves the submitter. TeacherAuthService implements it.
type teacherSessions interface {
	CurrentTeacher(ctx context.Context) (*models.SessionTeacher, error)
	AttachUpload(ctx context.Context, teacherID, uploadID string) error
}

// ReviewSink surfaces a submission for human review and returns a reference URL.
type ReviewSink interface {
	CreateIssue(ctx context.Context, issue models.ReviewIssue) (string, error)
}

// EventPublisher receives workflow events after the state change is persisted.
type EventPublisher interface {
	Publish(ctx context.Context, event models.NotificationEvent)
}

// UploadConfig bounds accepted files.
type UploadConfig struct {
	MaxFileSize int64
}

// UploadService implements the teacher upload registry.
type UploadService struct {
	uploads     uploadStore
	escalations escalationStore
	teachers    teacherSessions
	sink        ReviewSink
	events      EventPublisher
	validator   *validator.Validate
	logger      *zap.Logger
	metrics     workflowRecorder
	config      UploadConfig
	now         func() time.Time
}

// NewUploadService constructs the service. A nil sink sends every submission to
// the local escalation queue.
func NewUploadService(
	uploads uploadStore,
	escalations escalationStore,
	teachers teacherSessions,
	sink ReviewSink,
	events EventPublisher,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics workflowRecorder,
	cfg UploadConfig,
) *UploadService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 25 << 20
	}
	return &UploadService{
		uploads:     uploads,
		escalations: escalations,
		teachers:    teachers,
		sink:        sink,
		events:      events,
		validator:   validate,
		logger:      logger,
		metrics:     recorderOrNoop(metrics),
		config:      cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Submit records a pending submission for the signed-in teacher and escalates it
// for review. A failing review sink does not fail the submission: the request is
// queued locally instead.
func (s *UploadService) Submit(ctx context.Context, req dto.SubmitUploadRequest, file dto.UploadFile) (*dto.SubmitUploadResponse, error) {
	teacher, err := s.teachers.CurrentTeacher(ctx)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, appErrors.ErrNotAuthenticated
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid upload metadata")
	}
	if file.Content == nil || strings.TrimSpace(file.Name) == "" {
		return nil, validationError(nil, "file is required")
	}

	data, err := io.ReadAll(io.LimitReader(file.Content, s.config.MaxFileSize+1))
	if err != nil {
		return nil, validationError(err, "failed to read file")
	}
	if int64(len(data)) > s.config.MaxFileSize {
		return nil, validationError(nil, fmt.Sprintf("file exceeds %d bytes", s.config.MaxFileSize))
	}
	size := file.Size
	if size <= 0 {
		size = int64(len(data))
	}

	upload := models.Upload{
		ID:           "upload_" + uuid.NewString(),
		TeacherID:    teacher.ID,
		TeacherName:  teacher.Name,
		TeacherEmail: teacher.Email,
		Title:        req.Title,
		Description:  req.Description,
		Subject:      req.Subject,
		Class:        req.Class,
		Year:         req.Year,
		FileInfo: models.FileInfo{
			Name:         file.Name,
			Size:         size,
			Type:         file.Type,
			LastModified: file.LastModified,
		},
		Status:      models.StatusPending,
		SubmittedAt: s.now(),
		AdminNotes:  "",
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	issueURL, queued, err := s.escalate(ctx, upload, encoded)
	if err != nil {
		return nil, err
	}

	upload.GitHubIssue = issueURL
	if err := s.uploads.Save(ctx, upload); err != nil {
		s.logger.Error("upload escalated but not saved",
			zap.String("upload_id", upload.ID),
			zap.String("issue", issueURL),
			zap.Error(err),
		)
		return nil, appErrors.Internal(err, "failed to save upload")
	}
	// The registry is keyed by teacher id, so a missing back-reference only
	// affects the teacher record.
	if err := s.teachers.AttachUpload(ctx, teacher.ID, upload.ID); err != nil {
		s.logger.Warn("upload not attached to teacher",
			zap.String("upload_id", upload.ID),
			zap.String("teacher_id", teacher.ID),
			zap.Error(err),
		)
	}

	outcome := "escalated"
	if queued {
		outcome = "queued"
	}
	s.metrics.RecordWorkflow("submission", outcome)
	s.publish(ctx, models.NotificationEvent{
		Type:         models.EventUploadSubmitted,
		TeacherID:    upload.TeacherID,
		TeacherEmail: upload.TeacherEmail,
		ResourceID:   upload.ID,
		Title:        upload.Title,
		Status:       upload.Status,
		Link:         issueURL,
	})

	return &dto.SubmitUploadResponse{
		UploadID: upload.ID,
		IssueURL: issueURL,
		Queued:   queued,
		Message:  submitMessage,
	}, nil
}

func (s *UploadService) escalate(ctx context.Context, upload models.Upload, encoded string) (string, bool, error) {
	issue := buildReviewIssue(upload, encoded)
	var remoteErr error
	if s.sink == nil {
		remoteErr = fmt.Errorf("review sink not configured")
	} else {
		url, err := s.sink.CreateIssue(ctx, issue)
		if err == nil {
			return url, false, nil
		}
		remoteErr = err
	}

	s.logger.Warn("review issue not created, queueing locally",
		zap.String("upload_id", upload.ID),
		zap.Error(remoteErr),
	)
	pending := models.PendingEscalation{
		Metadata:   upload,
		FileBase64: encoded,
		CreatedAt:  s.now(),
	}
	if err := s.escalations.Append(ctx, pending); err != nil {
		return "", false, appErrors.Internal(err, "failed to queue escalation")
	}
	return models.LocalPendingIssue, true, nil
}

// ListForCurrentTeacher returns the signed-in teacher's uploads, or none when
// nobody is signed in.
func (s *UploadService) ListForCurrentTeacher(ctx context.Context) ([]models.Upload, error) {
	teacher, err := s.teachers.CurrentTeacher(ctx)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return []models.Upload{}, nil
	}
	uploads, err := s.uploads.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list uploads")
	}
	return uploads, nil
}

// List returns every upload.
func (s *UploadService) List(ctx context.Context) ([]models.Upload, error) {
	uploads, err := s.uploads.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list uploads")
	}
	return uploads, nil
}

// GetByID returns one upload.
func (s *UploadService) GetByID(ctx context.Context, id string) (*models.Upload, error) {
	upload, err := s.uploads.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.ErrUploadNotFound
		}
		return nil, appErrors.Internal(err, "failed to load upload")
	}
	return upload, nil
}

// SetStatus approves or rejects a pending upload. Notes and link are always
// stored; only approval stamps the approval time.
func (s *UploadService) SetStatus(ctx context.Context, id string, req dto.SetUploadStatusRequest) (*models.Upload, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "status must be approved or rejected")
	}

	updated, err := s.uploads.Update(ctx, id, func(u *models.Upload) error {
		if !u.Status.CanTransition(req.Status) {
			return appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("upload is already %s", u.Status))
		}
		u.Status = req.Status
		u.AdminNotes = req.Notes
		link := req.Link
		u.CloudLink = &link
		if req.Status == models.StatusApproved {
			approvedAt := s.now()
			u.ApprovedAt = &approvedAt
		}
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.ErrUploadNotFound
		}
		return nil, appErrors.Internal(err, "failed to update upload")
	}

	s.metrics.RecordWorkflow("status_change", string(updated.Status))
	s.publish(ctx, models.NotificationEvent{
		Type:         models.EventUploadStatusChanged,
		TeacherID:    updated.TeacherID,
		TeacherEmail: updated.TeacherEmail,
		ResourceID:   updated.ID,
		Title:        updated.Title,
		Status:       updated.Status,
		Notes:        updated.AdminNotes,
		Link:         req.Link,
	})
	return updated, nil
}

// Stats counts uploads by status.
func (s *UploadService) Stats(ctx context.Context) (*models.StatusStats, error) {
	stats, err := s.uploads.Stats(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to compute upload stats")
	}
	return &stats, nil
}

// PendingEscalations lists review requests waiting in the local queue.
func (s *UploadService) PendingEscalations(ctx context.Context) ([]models.PendingEscalation, error) {
	pending, err := s.escalations.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list pending escalations")
	}
	return pending, nil
}

func (s *UploadService) publish(ctx context.Context, event models.NotificationEvent) {
	if s.events == nil {
		return
	}
	event.OccurredAt = s.now()
	s.events.Publish(ctx, event)
}

func buildReviewIssue(upload models.Upload, encoded string) models.ReviewIssue {
	preview := encoded
	if len(preview) > reviewPreviewLength {
		preview = preview[:reviewPreviewLength]
	}

	var b strings.Builder
	b.WriteString("## Upload Details\n\n")
	fmt.Fprintf(&b, "**Teacher:** %s\n", upload.TeacherName)
	fmt.Fprintf(&b, "**Email:** %s\n", upload.TeacherEmail)
	fmt.Fprintf(&b, "**Title:** %s\n", upload.Title)
	fmt.Fprintf(&b, "**Subject:** %s\n", upload.Subject)
	fmt.Fprintf(&b, "**Class:** %s\n", upload.Class)
	fmt.Fprintf(&b, "**Year:** %s\n\n", upload.Year)
	fmt.Fprintf(&b, "**Description:**\n%s\n\n", upload.Description)
	b.WriteString("**File Info:**\n")
	fmt.Fprintf(&b, "- Name: %s\n", upload.FileInfo.Name)
	fmt.Fprintf(&b, "- Size: %.2f MB\n", float64(upload.FileInfo.Size)/1024/1024)
	fmt.Fprintf(&b, "- Type: %s\n\n", upload.FileInfo.Type)
	fmt.Fprintf(&b, "**Upload ID:** %s\n", upload.ID)
	fmt.Fprintf(&b, "**Submitted:** %s\n\n", upload.SubmittedAt.Format(time.RFC1123))
	fmt.Fprintf(&b, "## File Preview:\n```\n%s...\n```\n\n", preview)
	b.WriteString("## Admin Actions:\n")
	b.WriteString("- [ ] Download and review file\n")
	b.WriteString("- [ ] Approve upload\n")
	b.WriteString("- [ ] Upload to cloud storage\n")
	b.WriteString("- [ ] Update metadata with cloud link\n")
	b.WriteString("- [ ] Notify teacher\n")

	labels := make([]string, len(reviewLabels))
	copy(labels, reviewLabels)
	return models.ReviewIssue{
		Title:  "[UPLOAD REVIEW] " + upload.Title,
		Body:   b.String(),
		Labels: labels,
	}
}
