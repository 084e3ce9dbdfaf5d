package dto

import (
	"io"

	"github.com/noah-isme/science-hub-api/internal/models"
)

// SubmitUploadRequest is the metadata part of an upload form.
type SubmitUploadRequest struct {
	Title       string `form:"title" json:"title" validate:"required,max=200"`
	Description string `form:"description" json:"description" validate:"max=5000"`
	Subject     string `form:"subject" json:"subject" validate:"required"`
	Class       string `form:"class" json:"class" validate:"required"`
	Year        string `form:"year" json:"year" validate:"required"`
}

// UploadFile is the file part of an upload.
type UploadFile struct {
	Name         string
	Size         int64
	Type         string
	LastModified int64
	Content      io.Reader
}

// SubmitUploadResponse acknowledges a submission.
type SubmitUploadResponse struct {
	UploadID string `json:"upload_id"`
	IssueURL string `json:"issue_url"`
	Queued   bool   `json:"queued"`
	Message  string `json:"message"`
}

// SetUploadStatusRequest records an admin decision.
type SetUploadStatusRequest struct {
	Status models.UploadStatus `json:"status" validate:"required,oneof=approved rejected"`
	Notes  string              `json:"notes" validate:"max=2000"`
	Link   string              `json:"link" validate:"omitempty,url"`
}
