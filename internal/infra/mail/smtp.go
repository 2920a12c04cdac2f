package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
	"github.com/Keerthithev/eduexpo/internal/core/port"
	"github.com/Keerthithev/eduexpo/internal/infra/config"
	"github.com/Keerthithev/eduexpo/internal/infra/logger"
)

// SMTPMailer delivers one-time codes and reset links over SMTP.
type SMTPMailer struct {
	cfg config.SMTPSettings
	log *zap.Logger

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer constructs a mailer bound to the configured SMTP relay.
func NewSMTPMailer(cfg config.SMTPSettings, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log, send: smtp.SendMail}
}

// SendOTP delivers a verification code. A delivery failure is reported to the
// caller so the stored record can be rolled back.
func (m *SMTPMailer) SendOTP(ctx context.Context, email, code string, purpose domain.OTPPurpose) error {
	subject := "Your verification code"
	intro := "Use this code to verify your email address."
	if purpose == domain.OTPPurposeReset {
		subject = "Your password reset code"
		intro = "Use this code to reset your password."
	}

	body := fmt.Sprintf("%s\r\n\r\nCode: %s\r\n\r\nThe code expires in 5 minutes. If you did not request it, ignore this message.\r\n", intro, code)

	if err := m.deliver(ctx, email, subject, body); err != nil {
		m.log.Error("otp mail delivery failed",
			zap.String("email", logger.MaskEmail(email)),
			zap.String("purpose", string(purpose)),
			zap.Error(err),
		)
		return fmt.Errorf("send otp mail: %w", err)
	}

	m.log.Info("otp mail delivered",
		zap.String("email", logger.MaskEmail(email)),
		zap.String("purpose", string(purpose)),
	)
	return nil
}

// SendResetLink delivers a link-based password reset URL.
func (m *SMTPMailer) SendResetLink(ctx context.Context, email, resetURL string) error {
	body := fmt.Sprintf("A password reset was requested for your account.\r\n\r\nReset link: %s\r\n\r\nThe link expires in 1 hour. If you did not request it, ignore this message.\r\n", resetURL)

	if err := m.deliver(ctx, email, "Reset your password", body); err != nil {
		m.log.Error("reset link delivery failed",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
		return fmt.Errorf("send reset link: %w", err)
	}

	m.log.Info("reset link delivered", zap.String("email", logger.MaskEmail(email)))
	return nil
}

func (m *SMTPMailer) deliver(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	return m.send(addr, auth, m.cfg.From, []string{to}, []byte(msg.String()))
}

var _ port.OTPMailer = (*SMTPMailer)(nil)
