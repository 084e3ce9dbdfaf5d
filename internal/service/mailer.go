package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/science-hub-api/internal/models"
)

// Mailer delivers verification and reset codes.
type Mailer interface {
	SendVerification(ctx context.Context, msg models.VerificationMessage) error
}

// LogMailer writes codes to the log. It is the development default.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer constructs a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendVerification(ctx context.Context, msg models.VerificationMessage) error {
	m.logger.Info("verification code issued",
		zap.String("recipient", msg.Recipient),
		zap.String("purpose", string(msg.Purpose)),
		zap.String("code", msg.Code),
		zap.Time("expires_at", msg.ExpiresAt),
	)
	return nil
}
