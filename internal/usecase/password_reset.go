package usecase

import (
	"context"
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
	passwordResetSourceOTP  = "otp_reset"
	passwordResetSourceLink = "link_reset"
)

// PasswordResetService drives both reset flows: the OTP flow (send, verify,
// reset) and the legacy link flow that stores a hashed token on the account.
type PasswordResetService struct {
	accounts port.AccountRepository
	otp      *otpIssuer
	mailer   port.OTPMailer
	events   port.EventPublisher
	logger   *zap.Logger
	now      func() time.Time

	resendCooldown time.Duration
	resetLinkTTL   time.Duration
	frontendURL    string

	generateToken func(int) (string, error)
}

// NewPasswordResetService constructs a PasswordResetService.
func NewPasswordResetService(
	accounts port.AccountRepository,
	otpStore port.OTPStore,
	mailer port.OTPMailer,
	events port.EventPublisher,
	log *zap.Logger,
	otpTTL, resendCooldown, resetLinkTTL time.Duration,
	frontendURL string,
) *PasswordResetService {
	if log == nil {
		log = zap.NewNop()
	}
	if resendCooldown <= 0 {
		resendCooldown = defaultResendCooldown
	}
	if resetLinkTTL <= 0 {
		resetLinkTTL = defaultResetLinkTTL
	}

	return &PasswordResetService{
		accounts:       accounts,
		otp:            newOTPIssuer(otpStore, mailer, events, log, otpTTL),
		mailer:         mailer,
		events:         events,
		logger:         log,
		now:            time.Now,
		resendCooldown: resendCooldown,
		resetLinkTTL:   resetLinkTTL,
		frontendURL:    strings.TrimRight(frontendURL, "/"),
		generateToken:  security.GenerateSecureToken,
	}
}

// WithClock overrides the clock used by the service and its issuer, for tests.
func (s *PasswordResetService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
		s.otp.WithClock(clock)
	}
}

// SendOTP issues a reset code for the email and reports whether an account
// exists for it. A request inside the cooldown window is rejected with the
// remaining wait. An unknown email still returns a nil error so the endpoint
// cannot be used to probe which addresses are registered.
func (s *PasswordResetService) SendOTP(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, fmt.Errorf("email is required")
	}

	if err := s.otp.enforceCooldown(ctx, domain.OTPPurposeReset, email, s.resendCooldown); err != nil {
		return false, err
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("reset code requested for unknown email", zap.String("email", logger.MaskEmail(email)))
			return false, nil
		}
		return false, fmt.Errorf("lookup account: %w", err)
	}

	if _, err := s.otp.issue(ctx, domain.OTPPurposeReset, email, ""); err != nil {
		return true, err
	}

	s.logger.Info("reset code issued", zap.String("email", logger.MaskEmail(email)))
	return true, nil
}

// ResendOTP supersedes any pending reset code unconditionally. Unlike
// SendOTP it reports an unknown account to the caller, matching the contract
// of a user already inside the flow.
func (s *PasswordResetService) ResendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("lookup account: %w", err)
	}

	if _, err := s.otp.issue(ctx, domain.OTPPurposeReset, email, ""); err != nil {
		return err
	}

	s.logger.Info("reset code reissued", zap.String("email", logger.MaskEmail(email)))
	return nil
}

// VerifyOTP checks the submitted code without consuming it. The final reset
// re-validates, so this is a pure preflight for the client.
func (s *PasswordResetService) VerifyOTP(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	return s.checkResetCode(ctx, email, code)
}

// checkResetCode validates a reset code. The flow does not distinguish a
// missing record from a stale code; both surface as invalid-or-expired.
func (s *PasswordResetService) checkResetCode(ctx context.Context, email, code string) error {
	_, err := s.otp.verifyCode(ctx, domain.OTPPurposeReset, email, code)
	if errors.Is(err, ErrNoPendingRequest) {
		return ErrInvalidOrExpiredCode
	}
	return err
}

// ResetPassword checks the password policy, re-validates the code, applies
// the new password, and consumes the record so the code cannot be replayed.
func (s *PasswordResetService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	if err := s.checkResetCode(ctx, email, code); err != nil {
		return err
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("lookup account: %w", err)
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	changedAt := s.now().UTC()
	if err := s.accounts.UpdatePassword(ctx, account.ID, hash, changedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.otp.store.Delete(ctx, domain.OTPPurposeReset, email); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("consume reset otp failed",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
	}

	s.publishPasswordChanged(ctx, account.ID, changedAt, passwordResetSourceOTP)

	s.logger.Info("password reset completed",
		zap.String("account_id", account.ID),
		zap.String("email", logger.MaskEmail(email)),
	)
	return nil
}

// RequestResetLink issues a link-based reset token: 32 random bytes delivered
// raw in the mail, stored on the account as a SHA-256 hash with a one hour
// expiry. A repeated request replaces the previous token. The reset URL is
// returned so development surfaces can expose it.
func (s *PasswordResetService) RequestResetLink(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("email is required")
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrAccountNotFound
		}
		return "", fmt.Errorf("lookup account: %w", err)
	}

	raw, err := s.generateToken(resetLinkTokenByteLength)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	expiresAt := s.now().UTC().Add(s.resetLinkTTL)
	if err := s.accounts.SetResetToken(ctx, account.ID, security.HashToken(raw), expiresAt); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, raw)
	if err := s.mailer.SendResetLink(ctx, email, resetURL); err != nil {
		if clearErr := s.accounts.ClearResetToken(ctx, account.ID); clearErr != nil {
			s.logger.Error("reset token rollback failed", zap.String("account_id", account.ID), zap.Error(clearErr))
		}
		return "", fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	s.logger.Info("reset link issued", zap.String("email", logger.MaskEmail(email)))
	return resetURL, nil
}

// ResetWithToken finalizes a link-based reset. The token is consumed whether
// or not it had expired by the time of use.
func (s *PasswordResetService) ResetWithToken(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidOrExpiredToken
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	now := s.now().UTC()
	account, err := s.accounts.GetByResetTokenHash(ctx, security.HashToken(token), now)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("lookup reset token: %w", err)
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.accounts.UpdatePassword(ctx, account.ID, hash, now); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.accounts.ClearResetToken(ctx, account.ID); err != nil {
		s.logger.Warn("clear reset token failed", zap.String("account_id", account.ID), zap.Error(err))
	}

	s.publishPasswordChanged(ctx, account.ID, now, passwordResetSourceLink)

	s.logger.Info("link reset completed", zap.String("account_id", account.ID))
	return nil
}

func (s *PasswordResetService) publishPasswordChanged(ctx context.Context, accountID string, changedAt time.Time, source string) {
	if s.events == nil {
		return
	}

	event := domain.PasswordChangedEvent{
		EventID:   uuid.NewString(),
		AccountID: accountID,
		ChangedAt: changedAt,
		Source:    source,
	}

	if err := s.events.PublishPasswordChanged(ctx, event); err != nil {
		s.logger.Warn("publish password changed event failed", zap.String("account_id", accountID), zap.Error(err))
	}
}
