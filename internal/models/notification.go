package models

import "time"

// Outbound event types.
const (
	EventUploadSubmitted     = "upload.submitted"
	EventUploadStatusChanged = "upload.status_changed"
	EventMaterialPublished   = "material.published"
)

// NotificationEvent is emitted after a workflow transition has been persisted.
type NotificationEvent struct {
	ID           string       `json:"id"`
	Type         string       `json:"type"`
	TeacherID    string       `json:"teacherId,omitempty"`
	TeacherEmail string       `json:"teacherEmail,omitempty"`
	ResourceID   string       `json:"resourceId"`
	Title        string       `json:"title"`
	Status       UploadStatus `json:"status,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	Link         string       `json:"link,omitempty"`
	OccurredAt   time.Time    `json:"occurredAt"`
}

// Notification is an inbox entry shown to a teacher.
type Notification struct {
	ID         string    `json:"id"`
	TeacherID  string    `json:"teacherId"`
	EventType  string    `json:"eventType"`
	ResourceID string    `json:"resourceId"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}
