package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
	"github.com/Keerthithev/eduexpo/internal/core/port"
	"github.com/Keerthithev/eduexpo/internal/infra/logger"
)

// LogMailer writes deliveries to the log instead of sending mail. It is the
// development fallback when no SMTP relay is configured and the only mode in
// which a plaintext code may reach the log.
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer constructs a development mailer.
func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendOTP(_ context.Context, email, code string, purpose domain.OTPPurpose) error {
	m.log.Info("dev mail: otp code",
		zap.String("email", logger.MaskEmail(email)),
		zap.String("purpose", string(purpose)),
		zap.String("code", code),
	)
	return nil
}

func (m *LogMailer) SendResetLink(_ context.Context, email, resetURL string) error {
	m.log.Info("dev mail: reset link",
		zap.String("email", logger.MaskEmail(email)),
		zap.String("url", resetURL),
	)
	return nil
}

var _ port.OTPMailer = (*LogMailer)(nil)
