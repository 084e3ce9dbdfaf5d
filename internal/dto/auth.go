package dto

import (
	"time"

	"github.com/noah-isme/science-hub-api/internal/models"
)

// RegisterRequest starts a teacher registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Name     string `json:"name" validate:"required,max=120"`
	School   string `json:"school" validate:"required,max=160"`
	Password string `json:"password" validate:"required"`
}

// CodeIssuedResponse reports where a one-time code went.
type CodeIssuedResponse struct {
	Message        string    `json:"message"`
	Email          string    `json:"email"`
	ExpiresAt      time.Time `json:"expires_at"`
	DeliveryFailed bool      `json:"delivery_failed"`
}

// VerifyEmailRequest confirms a registration code.
type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// LoginRequest holds teacher credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse wraps the signed-in teacher snapshot.
type SessionResponse struct {
	Teacher models.SessionTeacher `json:"teacher"`
	Message string                `json:"message,omitempty"`
}

// ForgotPasswordRequest asks for a reset code.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// AdminLoginRequest holds the moderator credential.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminLoginResponse returns the issued admin token.
type AdminLoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}
