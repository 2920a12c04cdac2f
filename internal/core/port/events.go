package port

import (
	"context"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
)

// EventPublisher fans domain events out to downstream consumers.
// Publishing is best-effort from the caller's point of view: request flows
// log and continue on publish failure.
type EventPublisher interface {
	PublishAccountCreated(ctx context.Context, event domain.AccountCreatedEvent) error
	PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error
	PublishOTPIssued(ctx context.Context, event domain.OTPIssuedEvent) error
}
