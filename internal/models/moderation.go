package models

import (
	"strings"
	"time"
)

// ResourceType classifies moderation records and drives the publish path.
type ResourceType string

const (
	ResourcePDF    ResourceType = "pdf"
	ResourceNotes  ResourceType = "notes"
	ResourceVideo  ResourceType = "video"
	ResourceCourse ResourceType = "course"
)

// Valid reports whether the type is publishable.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourcePDF, ResourceNotes, ResourceVideo, ResourceCourse:
		return true
	}
	return false
}

// ModerationFileInfo describes the file attached to a moderation record.
type ModerationFileInfo struct {
	Name          string `json:"name"`
	Size          int64  `json:"size"`
	SizeFormatted string `json:"sizeFormatted"`
	Type          string `json:"type"`
}

// ModerationRecord is an entry of the admin review queue.
type ModerationRecord struct {
	ID                  string              `json:"id"`
	TeacherName         string              `json:"teacherName"`
	TeacherEmail        string              `json:"teacherEmail"`
	MaterialTitle       string              `json:"materialTitle"`
	MaterialDescription string              `json:"materialDescription"`
	MaterialSubject     string              `json:"materialSubject"`
	MaterialClass       string              `json:"materialClass"`
	MaterialYear        string              `json:"materialYear"`
	MaterialLanguage    string              `json:"materialLanguage"`
	ResourceType        ResourceType        `json:"resourceType"`
	CloudLink           *string             `json:"cloudLink"`
	SubmittedAt         time.Time           `json:"submittedAt"`
	Status              UploadStatus        `json:"status"`
	FileInfo            *ModerationFileInfo `json:"fileInfo,omitempty"`
	Pages               int                 `json:"pages,omitempty"`
	Duration            string              `json:"duration,omitempty"`
	Platform            string              `json:"platform,omitempty"`
	Provider            string              `json:"provider,omitempty"`
	CourseDuration      string              `json:"courseDuration,omitempty"`
	AdminNotes          string              `json:"adminNotes,omitempty"`
	ApprovedAt          *time.Time          `json:"approvedAt,omitempty"`
	GitHubURL           string              `json:"githubUrl,omitempty"`
}

// ModerationUpdate carries a partial edit; nil fields are left untouched.
type ModerationUpdate struct {
	MaterialTitle       *string       `json:"materialTitle,omitempty"`
	MaterialDescription *string       `json:"materialDescription,omitempty"`
	MaterialSubject     *string       `json:"materialSubject,omitempty"`
	MaterialClass       *string       `json:"materialClass,omitempty"`
	MaterialYear        *string       `json:"materialYear,omitempty"`
	MaterialLanguage    *string       `json:"materialLanguage,omitempty"`
	ResourceType        *ResourceType `json:"resourceType,omitempty"`
	CloudLink           *string       `json:"cloudLink,omitempty"`
	Status              *UploadStatus `json:"status,omitempty"`
	AdminNotes          *string       `json:"adminNotes,omitempty"`
	ApprovedAt          *time.Time    `json:"approvedAt,omitempty"`
	GitHubURL           *string       `json:"githubUrl,omitempty"`
}

// Empty reports whether the update carries no field.
func (u ModerationUpdate) Empty() bool {
	return u == ModerationUpdate{}
}

// Apply shallow-merges the update into the record.
func (u ModerationUpdate) Apply(r *ModerationRecord) {
	setString(&r.MaterialTitle, u.MaterialTitle)
	setString(&r.MaterialDescription, u.MaterialDescription)
	setString(&r.MaterialSubject, u.MaterialSubject)
	setString(&r.MaterialClass, u.MaterialClass)
	setString(&r.MaterialYear, u.MaterialYear)
	setString(&r.MaterialLanguage, u.MaterialLanguage)
	setString(&r.AdminNotes, u.AdminNotes)
	setString(&r.GitHubURL, u.GitHubURL)
	if u.ResourceType != nil {
		r.ResourceType = *u.ResourceType
	}
	if u.CloudLink != nil {
		link := *u.CloudLink
		r.CloudLink = &link
	}
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.ApprovedAt != nil {
		ts := *u.ApprovedAt
		r.ApprovedAt = &ts
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// ModerationFilter narrows the admin queue. Empty fields match everything.
type ModerationFilter struct {
	Status  UploadStatus `form:"status"`
	Subject string       `form:"subject"`
	Class   string       `form:"class"`
	Type    ResourceType `form:"type"`
	Search  string       `form:"search"`
}

// Matches reports whether the record passes every set criterion. Search is a
// case-insensitive substring match on title, description and teacher name.
func (f ModerationFilter) Matches(r ModerationRecord) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Subject != "" && r.MaterialSubject != f.Subject {
		return false
	}
	if f.Class != "" && r.MaterialClass != f.Class {
		return false
	}
	if f.Type != "" && r.ResourceType != f.Type {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		haystack := strings.ToLower(r.MaterialTitle + " " + r.MaterialDescription + " " + r.TeacherName)
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}
