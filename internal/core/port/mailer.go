package port

import (
	"context"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
)

// OTPMailer delivers a plaintext one-time code to an email address.
// Implementations report delivery failure so issuance can roll back the
// stored record; they must never persist or log the code themselves outside
// explicit development modes.
type OTPMailer interface {
	SendOTP(ctx context.Context, email, code string, purpose domain.OTPPurpose) error

	// SendResetLink delivers a link-based password reset URL.
	SendResetLink(ctx context.Context, email, resetURL string) error
}
