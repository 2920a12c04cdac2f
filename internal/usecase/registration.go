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

// RegistrationService drives the three-step email-verified signup flow:
// Start issues a code, Verify confirms it, Complete sets the password and
// creates the durable account.
type RegistrationService struct {
	accounts port.AccountRepository
	goals    port.GoalRepository
	otp      *otpIssuer
	tokens   *security.TokenIssuer
	events   port.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// RegistrationResult carries the created account and its session credential.
type RegistrationResult struct {
	Account domain.Account
	Token   string
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(
	accounts port.AccountRepository,
	goals port.GoalRepository,
	otpStore port.OTPStore,
	mailer port.OTPMailer,
	tokens *security.TokenIssuer,
	events port.EventPublisher,
	log *zap.Logger,
	otpTTL time.Duration,
) *RegistrationService {
	if log == nil {
		log = zap.NewNop()
	}

	return &RegistrationService{
		accounts: accounts,
		goals:    goals,
		otp:      newOTPIssuer(otpStore, mailer, events, log, otpTTL),
		tokens:   tokens,
		events:   events,
		logger:   log,
		now:      time.Now,
	}
}

// WithClock overrides the clock used by the service and its issuer, for tests.
func (s *RegistrationService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
		s.otp.WithClock(clock)
	}
}

// Start issues a registration code for the email. Calling it again before
// verification supersedes the previous code unconditionally, so a stuck
// signup can always request a fresh one.
func (s *RegistrationService) Start(ctx context.Context, name, email string) error {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return ErrDuplicateAccount
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("lookup account: %w", err)
	}

	if _, err := s.otp.issue(ctx, domain.OTPPurposeRegister, email, name); err != nil {
		return err
	}

	s.logger.Info("registration code issued", zap.String("email", logger.MaskEmail(email)))
	return nil
}

// Resend re-runs the start semantics for a stuck signup: the duplicate
// account guard still applies and any pending code is superseded
// unconditionally, whether or not one exists.
func (s *RegistrationService) Resend(ctx context.Context, name, email string) error {
	return s.Start(ctx, name, email)
}

// Verify confirms the submitted code and marks the pending request verified.
// Verification is sticky: the flag survives until completion or supersession.
// The pending display name is returned so the client can greet the candidate.
func (s *RegistrationService) Verify(ctx context.Context, email, code string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("email is required")
	}

	record, err := s.otp.verifyCode(ctx, domain.OTPPurposeRegister, email, code)
	if err != nil {
		return "", err
	}

	// The account may have been created concurrently since the code was issued.
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return "", ErrDuplicateAccount
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("lookup account: %w", err)
	}

	if err := s.otp.store.MarkVerified(ctx, domain.OTPPurposeRegister, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNoPendingRequest
		}
		return "", fmt.Errorf("mark otp verified: %w", err)
	}

	s.logger.Info("registration code verified", zap.String("email", logger.MaskEmail(email)))
	return record.PendingName, nil
}

// Complete finishes signup for a verified request: it validates the password,
// creates the account with its default goal, and consumes the pending record.
// The record is deleted only after the account exists, so a storage failure
// leaves the flow resumable.
func (s *RegistrationService) Complete(ctx context.Context, email, password string) (*RegistrationResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	record, err := s.otp.store.Get(ctx, domain.OTPPurposeRegister, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoPendingRequest
		}
		return nil, fmt.Errorf("lookup otp: %w", err)
	}
	if !record.Verified {
		return nil, ErrOTPNotVerified
	}

	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	account := domain.Account{
		ID:              uuid.NewString(),
		Name:            record.PendingName,
		Email:           email,
		PasswordHash:    hash,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.createDefaultGoal(ctx, account.ID, now)

	if err := s.otp.store.Delete(ctx, domain.OTPPurposeRegister, email); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("consume registration otp failed",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
	}

	s.publishAccountCreated(ctx, account)

	token := ""
	if s.tokens != nil {
		token, err = s.tokens.Issue(account.ID)
		if err != nil {
			return nil, fmt.Errorf("issue token: %w", err)
		}
	}

	s.logger.Info("registration completed",
		zap.String("account_id", account.ID),
		zap.String("email", logger.MaskEmail(email)),
	)

	return &RegistrationResult{Account: account, Token: token}, nil
}

func (s *RegistrationService) createDefaultGoal(ctx context.Context, accountID string, now time.Time) {
	if s.goals == nil {
		return
	}

	goal := domain.Goal{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Title:       domain.DefaultGoalTitle,
		Description: domain.DefaultGoalDescription,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// A failed seed goal is not fatal; the account can create one later.
	if err := s.goals.Create(ctx, goal); err != nil {
		s.logger.Warn("create default goal failed", zap.String("account_id", accountID), zap.Error(err))
	}
}

func (s *RegistrationService) publishAccountCreated(ctx context.Context, account domain.Account) {
	if s.events == nil {
		return
	}

	event := domain.AccountCreatedEvent{
		EventID:   uuid.NewString(),
		AccountID: account.ID,
		Name:      account.Name,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
	}

	if err := s.events.PublishAccountCreated(ctx, event); err != nil {
		s.logger.Warn("publish account created event failed", zap.String("account_id", account.ID), zap.Error(err))
	}
}
