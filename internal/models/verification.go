package models

import "time"

// VerificationPurpose tags what a one-time code unlocks.
type VerificationPurpose string

const (
	PurposeRegistration  VerificationPurpose = "registration"
	PurposePasswordReset VerificationPurpose = "password_reset"
)

// RegistrationPayload holds the pending account until the email is confirmed.
// Only the password hash is kept.
type RegistrationPayload struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	School       string `json:"school"`
	PasswordHash string `json:"passwordHash"`
}

// VerificationEntry is a single-use code bound to one email address.
type VerificationEntry struct {
	Email     string               `json:"email"`
	Code      string               `json:"code"`
	Purpose   VerificationPurpose  `json:"purpose"`
	ExpiresAt time.Time            `json:"expiresAt"`
	CreatedAt time.Time            `json:"createdAt"`
	Payload   *RegistrationPayload `json:"payload,omitempty"`
}

// Expired reports whether the entry can no longer be consumed.
func (e VerificationEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// VerificationMessage is what the mailer delivers.
type VerificationMessage struct {
	Recipient     string              `json:"recipient"`
	RecipientName string              `json:"recipientName"`
	Code          string              `json:"code"`
	Purpose       VerificationPurpose `json:"purpose"`
	ExpiresAt     time.Time           `json:"expiresAt"`
}
