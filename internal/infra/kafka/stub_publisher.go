package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
	"github.com/Keerthithev/eduexpo/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, accountID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("account_id", accountID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishAccountCreated logs eduexpo.account.created events.
func (p *StubPublisher) PublishAccountCreated(_ context.Context, event domain.AccountCreatedEvent) error {
	payload := map[string]any{
		"account_id": event.AccountID,
		"name":       event.Name,
		"email":      event.Email,
		"created_at": event.CreatedAt,
		"metadata":   event.Metadata,
	}
	p.logEvent("eduexpo.account.created", event.AccountID, event.CreatedAt, payload)
	return nil
}

// PublishPasswordChanged logs eduexpo.account.password.changed events.
func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	payload := map[string]any{
		"account_id": event.AccountID,
		"changed_at": event.ChangedAt,
		"source":     event.Source,
		"metadata":   event.Metadata,
	}
	p.logEvent("eduexpo.account.password.changed", event.AccountID, event.ChangedAt, payload)
	return nil
}

// PublishOTPIssued logs eduexpo.otp.issued events with the destination masked.
func (p *StubPublisher) PublishOTPIssued(_ context.Context, event domain.OTPIssuedEvent) error {
	payload := map[string]any{
		"masked_email": event.MaskedEmail,
		"purpose":      string(event.Purpose),
		"issued_at":    event.IssuedAt,
		"expires_at":   event.ExpiresAt,
	}
	p.logEvent("eduexpo.otp.issued", "", event.IssuedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
