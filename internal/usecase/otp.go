package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
	"github.com/Keerthithev/eduexpo/internal/core/port"
	"github.com/Keerthithev/eduexpo/internal/infra/logger"
	"github.com/Keerthithev/eduexpo/internal/infra/security"
	"github.com/Keerthithev/eduexpo/internal/repository"
)

const (
	defaultOTPTTL            = 5 * time.Minute
	defaultResendCooldown    = 60 * time.Second
	minimumPasswordLength    = 6
	defaultResetLinkTTL      = time.Hour
	resetLinkTokenByteLength = 32
)

// otpIssuer centralizes code generation, storage, delivery, and rollback for
// both verification flows.
type otpIssuer struct {
	store  port.OTPStore
	mailer port.OTPMailer
	events port.EventPublisher
	logger *zap.Logger
	now    func() time.Time
	ttl    time.Duration

	generateCode func() (string, error)
}

func newOTPIssuer(store port.OTPStore, mailer port.OTPMailer, events port.EventPublisher, log *zap.Logger, ttl time.Duration) *otpIssuer {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultOTPTTL
	}
	return &otpIssuer{
		store:        store,
		mailer:       mailer,
		events:       events,
		logger:       log,
		now:          time.Now,
		ttl:          ttl,
		generateCode: security.GenerateOTPCode,
	}
}

// issue stores a fresh record, superseding any live one, then delivers the
// code. If delivery fails the record is rolled back so the key is left with
// no pending request rather than an undeliverable one.
func (i *otpIssuer) issue(ctx context.Context, purpose domain.OTPPurpose, email, pendingName string) (*domain.OTPRecord, error) {
	code, err := i.generateCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	now := i.now().UTC()
	record := domain.OTPRecord{
		Email:       email,
		Purpose:     purpose,
		CodeHash:    security.HashToken(code),
		CreatedAt:   now,
		ExpiresAt:   now.Add(i.ttl),
		PendingName: pendingName,
	}

	if err := i.store.Put(ctx, record); err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}

	if err := i.mailer.SendOTP(ctx, email, code, purpose); err != nil {
		if delErr := i.store.Delete(ctx, purpose, email); delErr != nil && !errors.Is(delErr, repository.ErrNotFound) {
			i.logger.Error("otp rollback failed",
				zap.String("email", logger.MaskEmail(email)),
				zap.String("purpose", string(purpose)),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	i.publishIssued(ctx, record)

	return &record, nil
}

// enforceCooldown rejects a resend arriving before the cooldown elapsed,
// measured from the live record's creation time. A missing or expired record
// never blocks issuance.
func (i *otpIssuer) enforceCooldown(ctx context.Context, purpose domain.OTPPurpose, email string, cooldown time.Duration) error {
	if cooldown <= 0 {
		return nil
	}

	existing, err := i.store.Get(ctx, purpose, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("check pending otp: %w", err)
	}

	elapsed := i.now().UTC().Sub(existing.CreatedAt)
	if elapsed < cooldown {
		return &ResendCooldownError{Remaining: cooldown - elapsed}
	}

	return nil
}

// verifyCode fetches the live record and compares the submitted code in
// constant time. Missing records map to ErrNoPendingRequest and mismatches to
// ErrInvalidOrExpiredCode.
func (i *otpIssuer) verifyCode(ctx context.Context, purpose domain.OTPPurpose, email, code string) (*domain.OTPRecord, error) {
	record, err := i.store.Get(ctx, purpose, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoPendingRequest
		}
		return nil, fmt.Errorf("lookup otp: %w", err)
	}

	submitted := security.HashToken(strings.TrimSpace(code))
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(record.CodeHash)) != 1 {
		return nil, ErrInvalidOrExpiredCode
	}

	return record, nil
}

func (i *otpIssuer) publishIssued(ctx context.Context, record domain.OTPRecord) {
	if i.events == nil {
		return
	}

	event := domain.OTPIssuedEvent{
		EventID:     uuid.NewString(),
		Email:       record.Email,
		MaskedEmail: logger.MaskEmail(record.Email),
		Purpose:     record.Purpose,
		IssuedAt:    record.CreatedAt,
		ExpiresAt:   record.ExpiresAt,
	}

	if err := i.events.PublishOTPIssued(ctx, event); err != nil {
		i.logger.Warn("publish otp issued event failed",
			zap.String("email", event.MaskedEmail),
			zap.Error(err),
		)
	}
}

// WithClock overrides the issuer clock, used in tests.
func (i *otpIssuer) WithClock(clock func() time.Time) {
	if clock != nil {
		i.now = clock
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < minimumPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
