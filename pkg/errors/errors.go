package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code, so clones and wraps of a predefined
// error still satisfy errors.Is against it.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Generic errors shared by every module.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
)

// Teacher directory and verification errors.
var (
	ErrInvalidEmail          = New("INVALID_EMAIL", http.StatusBadRequest, "invalid email address")
	ErrWeakPassword          = New("WEAK_PASSWORD", http.StatusBadRequest, "password must be at least 6 characters")
	ErrEmailTaken            = New("EMAIL_TAKEN", http.StatusConflict, "email already registered")
	ErrNoPendingVerification = New("NO_PENDING_VERIFICATION", http.StatusNotFound, "no verification request found")
	ErrCodeExpired           = New("CODE_EXPIRED", http.StatusGone, "verification code expired")
	ErrCodeMismatch          = New("CODE_MISMATCH", http.StatusBadRequest, "invalid verification code")
	ErrTeacherNotFound       = New("TEACHER_NOT_FOUND", http.StatusNotFound, "teacher not found")
	ErrInvalidPassword       = New("INVALID_PASSWORD", http.StatusUnauthorized, "invalid password")
	ErrAccountInactive       = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is not active")
	ErrNotAuthenticated      = New("NOT_AUTHENTICATED", http.StatusUnauthorized, "teacher not logged in")
	ErrEmailSendFailed       = New("EMAIL_SEND_FAILED", http.StatusBadGateway, "failed to send verification email")
)

// Upload, moderation and publishing errors.
var (
	ErrUploadNotFound      = New("UPLOAD_NOT_FOUND", http.StatusNotFound, "upload not found")
	ErrSubmissionNotFound  = New("SUBMISSION_NOT_FOUND", http.StatusNotFound, "submission not found")
	ErrInvalidTransition   = New("INVALID_TRANSITION", http.StatusConflict, "status transition not allowed")
	ErrRemotePublishFailed = New("REMOTE_PUBLISH_FAILED", http.StatusBadGateway, "failed to publish material")
	ErrStorageCorrupt      = New("STORAGE_CORRUPT", http.StatusInternalServerError, "stored data is corrupt")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Internal keeps typed errors intact and wraps anything else as an internal error
// with the given message.
func Internal(err error, message string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
