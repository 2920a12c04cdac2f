package port

import (
	"context"
	"time"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
)

// AccountRepository persists durable account records.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id, name, email string, updatedAt time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	Delete(ctx context.Context, id string) error

	// Legacy link-based reset artifacts stored directly on the account.
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	GetByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.Account, error)
	ClearResetToken(ctx context.Context, id string) error
}
