package models

import "time"

// TeacherStatus describes whether a teacher account may sign in.
type TeacherStatus string

const (
	TeacherStatusActive    TeacherStatus = "active"
	TeacherStatusSuspended TeacherStatus = "suspended"
)

// Teacher is a registered contributor. Field names follow the browser storage
// layout so existing exports stay readable.
type Teacher struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	School       string        `json:"school"`
	PasswordHash string        `json:"passwordHash"`
	CreatedAt    time.Time     `json:"createdAt"`
	Status       TeacherStatus `json:"status"`
	Uploads      []string      `json:"uploads"`
	LastLogin    *time.Time    `json:"lastLogin"`
}

// SessionTeacher is the signed-in snapshot. It has no credential field.
type SessionTeacher struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	School    string        `json:"school"`
	CreatedAt time.Time     `json:"createdAt"`
	Status    TeacherStatus `json:"status"`
	Uploads   []string      `json:"uploads"`
	LastLogin *time.Time    `json:"lastLogin"`
}

// Session strips the credential from the teacher.
func (t Teacher) Session() SessionTeacher {
	uploads := make([]string, len(t.Uploads))
	copy(uploads, t.Uploads)
	return SessionTeacher{
		ID:        t.ID,
		Email:     t.Email,
		Name:      t.Name,
		School:    t.School,
		CreatedAt: t.CreatedAt,
		Status:    t.Status,
		Uploads:   uploads,
		LastLogin: t.LastLogin,
	}
}

// Active reports whether the account may sign in.
func (t Teacher) Active() bool {
	return t.Status == TeacherStatusActive
}

// ProfileUpdate lists the fields a profile edit may touch. Identity and
// credential fields cannot be edited this way.
type ProfileUpdate struct {
	Name   *string        `json:"name,omitempty"`
	School *string        `json:"school,omitempty"`
	Email  *string        `json:"email,omitempty"`
	Status *TeacherStatus `json:"status,omitempty"`
}

// Apply shallow-merges the provided fields into the teacher.
func (u ProfileUpdate) Apply(t *Teacher) {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.School != nil {
		t.School = *u.School
	}
	if u.Email != nil {
		t.Email = *u.Email
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
}
