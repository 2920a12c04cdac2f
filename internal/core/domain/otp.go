package domain

import "time"

// OTPPurpose discriminates the registration flow from the password-reset flow.
type OTPPurpose string

const (
	// OTPPurposeRegister guards the three-step registration flow.
	OTPPurposeRegister OTPPurpose = "register"
	// OTPPurposeReset guards the OTP-based password-reset flow.
	OTPPurposeReset OTPPurpose = "reset"
)

// Valid reports whether the purpose is one of the known flows.
func (p OTPPurpose) Valid() bool {
	return p == OTPPurposeRegister || p == OTPPurposeReset
}

// OTPRecord is an in-flight one-time code, looked up by (email, purpose).
// At most one live record exists per key; issuing again supersedes it.
// The plaintext code is never stored, only its SHA-256 digest.
type OTPRecord struct {
	Email     string
	Purpose   OTPPurpose
	CodeHash  string
	Verified  bool
	CreatedAt time.Time
	ExpiresAt time.Time

	// PendingName carries the candidate display name through the register
	// flow until the account is created. Empty for reset records.
	PendingName string
}

// Expired reports whether the record is past its expiry at the given instant.
func (r OTPRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
