package domain

import "time"

// AccountCreatedEvent is published when registration completes and the
// durable account record exists.
type AccountCreatedEvent struct {
	EventID   string
	AccountID string
	Name      string
	Email     string
	CreatedAt time.Time
	Metadata  map[string]any
}

// PasswordChangedEvent is published after a password update, whichever flow
// produced it (OTP reset, legacy link reset, or authenticated change).
type PasswordChangedEvent struct {
	EventID   string
	AccountID string
	ChangedAt time.Time
	Source    string
	Metadata  map[string]any
}

// OTPIssuedEvent is published after a code has been stored and delivered.
// It never carries the plaintext code.
type OTPIssuedEvent struct {
	EventID     string
	Email       string
	MaskedEmail string
	Purpose     OTPPurpose
	IssuedAt    time.Time
	ExpiresAt   time.Time
}
