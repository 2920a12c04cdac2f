package port

import (
	"context"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
)

// OTPStore persists in-flight one-time codes keyed by (email, purpose).
//
// Put supersedes any live record for the same key. Get must treat an
// expired record as absent, returning repository.ErrNotFound, regardless of
// whether the backend has reaped it yet.
type OTPStore interface {
	Put(ctx context.Context, record domain.OTPRecord) error
	Get(ctx context.Context, purpose domain.OTPPurpose, email string) (*domain.OTPRecord, error)
	MarkVerified(ctx context.Context, purpose domain.OTPPurpose, email string) error
	Delete(ctx context.Context, purpose domain.OTPPurpose, email string) error
}
