package models

import "time"

// UploadStatus is the review state shared by uploads and moderation records.
type UploadStatus string

const (
	StatusPending  UploadStatus = "pending"
	StatusApproved UploadStatus = "approved"
	StatusRejected UploadStatus = "rejected"
)

// Valid reports whether the status is part of the vocabulary.
func (s UploadStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s UploadStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether a submission may move from s to next.
func (s UploadStatus) CanTransition(next UploadStatus) bool {
	return s == StatusPending && next.Terminal()
}

// LocalPendingIssue marks a submission whose review issue could not be created
// and was queued locally instead.
const LocalPendingIssue = "local-pending"

// FileInfo describes the uploaded file.
type FileInfo struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
	LastModified int64  `json:"lastModified"`
}

// Upload is a teacher submission awaiting or past review.
type Upload struct {
	ID           string       `json:"id"`
	TeacherID    string       `json:"teacherId"`
	TeacherName  string       `json:"teacherName"`
	TeacherEmail string       `json:"teacherEmail"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Subject      string       `json:"subject"`
	Class        string       `json:"class"`
	Year         string       `json:"year"`
	FileInfo     FileInfo     `json:"fileInfo"`
	Status       UploadStatus `json:"status"`
	SubmittedAt  time.Time    `json:"submittedAt"`
	AdminNotes   string       `json:"adminNotes"`
	ApprovedAt   *time.Time   `json:"approvedAt"`
	CloudLink    *string      `json:"cloudLink"`
	GitHubIssue  string       `json:"githubIssue,omitempty"`
}

// Escalated reports whether a remote review issue exists for the upload.
func (u Upload) Escalated() bool {
	return u.GitHubIssue != "" && u.GitHubIssue != LocalPendingIssue
}

// PendingEscalation is a review request kept locally after the remote sink failed.
type PendingEscalation struct {
	Metadata   Upload    `json:"metadata"`
	FileBase64 string    `json:"fileBase64"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReviewIssue is the request sent to the remote review sink.
type ReviewIssue struct {
	Title  string
	Body   string
	Labels []string
}

// StatusStats counts records by review status.
type StatusStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Count adds one record with the given status.
func (s *StatusStats) Count(status UploadStatus) {
	s.Total++
	switch status {
	case StatusPending:
		s.Pending++
	case StatusApproved:
		s.Approved++
	case StatusRejected:
		s.Rejected++
	}
}
