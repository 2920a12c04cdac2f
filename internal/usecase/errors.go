package usecase

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDuplicateAccount indicates the email already belongs to a registered account.
	ErrDuplicateAccount = errors.New("account already exists for this email")
	// ErrAccountNotFound indicates no account exists for the supplied identifier.
	ErrAccountNotFound = errors.New("account not found")
	// ErrNoPendingRequest indicates no live verification is in flight for the email.
	ErrNoPendingRequest = errors.New("no pending verification request")
	// ErrInvalidOrExpiredCode indicates the code mismatched or the record expired.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired verification code")
	// ErrOTPNotVerified indicates completion was attempted before the code was verified.
	ErrOTPNotVerified = errors.New("verification code not confirmed")
	// ErrWeakPassword indicates the candidate password fails the length policy.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	// ErrDeliveryFailed indicates the mail gateway rejected the message.
	ErrDeliveryFailed = errors.New("verification email could not be delivered")
	// ErrInvalidCredentials indicates the email/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidOrExpiredToken indicates a link-based reset token mismatched or expired.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
	// ErrGoalNotFound indicates the account has no goal yet.
	ErrGoalNotFound = errors.New("goal not found")
	// ErrTopicNotFound indicates the topic does not exist or belongs to another account.
	ErrTopicNotFound = errors.New("topic not found")
)

// ResendCooldownError is returned when a resend arrives before the cooldown
// elapsed. Remaining is rounded up to whole seconds for the client.
type ResendCooldownError struct {
	Remaining time.Duration
}

func (e *ResendCooldownError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting a new code", e.RemainingSeconds())
}

// RemainingSeconds reports the wait rounded up to whole seconds, never below 1.
func (e *ResendCooldownError) RemainingSeconds() int {
	secs := int((e.Remaining + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// RateLimitExceededError reports a sliding-window limit violation.
type RateLimitExceededError struct {
	Scope      string
	RetryAfter time.Duration
}

func (e *RateLimitExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s", e.Scope)
}
