package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
	"github.com/noah-isme/science-hub-api/pkg/jobs"
)

// NotificationSink delivers workflow events to one destination.
type NotificationSink interface {
	Name() string
	Deliver(ctx context.Context, event models.NotificationEvent) error
}

// NotificationService fans events out to every sink through a worker queue.
// Each sink gets its own job so a retry never re-delivers to a sink that
// already succeeded.
type NotificationService struct {
	queue   *jobs.Queue
	sinks   map[string]NotificationSink
	order   []string
	logger  *zap.Logger
	metrics workflowRecorder
}

// NewNotificationService builds the service and its queue. Call Start before
// publishing.
func NewNotificationService(sinks []NotificationSink, cfg jobs.QueueConfig, logger *zap.Logger, metrics workflowRecorder) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NotificationService{
		sinks:   make(map[string]NotificationSink, len(sinks)),
		logger:  logger,
		metrics: recorderOrNoop(metrics),
	}
	for _, sink := range sinks {
		if sink == nil {
			continue
		}
		if _, dup := svc.sinks[sink.Name()]; dup {
			continue
		}
		svc.sinks[sink.Name()] = sink
		svc.order = append(svc.order, sink.Name())
	}
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	svc.queue = jobs.NewQueue("notifications", svc.handle, cfg)
	return svc
}

// Start launches the workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains buffered deliveries and waits for the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Publish schedules delivery of the event to every sink without waiting for
// buffer space. Events that cannot be queued are logged and dropped.
func (s *NotificationService) Publish(ctx context.Context, event models.NotificationEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	for _, name := range s.order {
		if err := s.queue.TryEnqueue(jobs.Job{Type: name, Payload: event}); err != nil {
			s.metrics.RecordWorkflow("notification", "dropped")
			s.logger.Warn("notification not queued",
				zap.String("sink", name),
				zap.String("event", event.Type),
				zap.Error(err),
			)
		}
	}
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	sink, ok := s.sinks[job.Type]
	if !ok {
		return nil
	}
	event, ok := job.Payload.(models.NotificationEvent)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID))
		return nil
	}
	if err := sink.Deliver(ctx, event); err != nil {
		s.metrics.RecordWorkflow("notification", "failed")
		return fmt.Errorf("deliver %s to %s: %w", event.Type, sink.Name(), err)
	}
	s.metrics.RecordWorkflow("notification", "delivered")
	return nil
}

// LogSink writes events to the structured log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink constructs a LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Name implements NotificationSink.
func (s *LogSink) Name() string { return "log" }

// Deliver implements NotificationSink.
func (s *LogSink) Deliver(ctx context.Context, event models.NotificationEvent) error {
	s.logger.Info("notification",
		zap.String("event_id", event.ID),
		zap.String("type", event.Type),
		zap.String("resource_id", event.ResourceID),
		zap.String("teacher_email", event.TeacherEmail),
		zap.String("status", string(event.Status)),
	)
	return nil
}

type inboxStore interface {
	Prepend(ctx context.Context, n models.Notification) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Notification, error)
}

type teacherLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.Teacher, error)
}

// InboxSink keeps per-teacher notifications in the record store.
type InboxSink struct {
	inbox    inboxStore
	teachers teacherLookup
}

// NewInboxSink constructs an InboxSink. Events without a teacher id are
// resolved by email through teachers when it is set.
func NewInboxSink(inbox inboxStore, teachers teacherLookup) *InboxSink {
	return &InboxSink{inbox: inbox, teachers: teachers}
}

// Name implements NotificationSink.
func (s *InboxSink) Name() string { return "inbox" }

// Deliver implements NotificationSink.
func (s *InboxSink) Deliver(ctx context.Context, event models.NotificationEvent) error {
	teacherID := event.TeacherID
	if teacherID == "" && event.TeacherEmail != "" && s.teachers != nil {
		teacher, err := s.teachers.FindByEmail(ctx, event.TeacherEmail)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		teacherID = teacher.ID
	}
	if teacherID == "" {
		return nil
	}
	return s.inbox.Prepend(ctx, models.Notification{
		ID:         event.ID,
		TeacherID:  teacherID,
		EventType:  event.Type,
		ResourceID: event.ResourceID,
		Message:    notificationMessage(event),
		CreatedAt:  event.OccurredAt,
	})
}

// ListForTeacher returns a teacher's inbox, newest first.
func (s *InboxSink) ListForTeacher(ctx context.Context, teacherID string) ([]models.Notification, error) {
	items, err := s.inbox.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to read notifications")
	}
	return items, nil
}

func notificationMessage(event models.NotificationEvent) string {
	switch event.Type {
	case models.EventUploadSubmitted:
		return fmt.Sprintf("Your upload %q was submitted for review.", event.Title)
	case models.EventUploadStatusChanged:
		msg := fmt.Sprintf("Your upload %q was %s.", event.Title, event.Status)
		if event.Notes != "" {
			msg += " Notes: " + event.Notes
		}
		return msg
	case models.EventMaterialPublished:
		return fmt.Sprintf("%q is now published.", event.Title)
	default:
		return event.Title
	}
}
