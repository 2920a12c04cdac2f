package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
	"github.com/Keerthithev/eduexpo/internal/core/port"
	"github.com/Keerthithev/eduexpo/internal/infra/security"
	"github.com/Keerthithev/eduexpo/internal/repository"
)

// AccountService manages profile operations on authenticated accounts.
type AccountService struct {
	accounts port.AccountRepository
	goals    port.GoalRepository
	topics   port.TopicRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewAccountService constructs an AccountService.
func NewAccountService(accounts port.AccountRepository, goals port.GoalRepository, topics port.TopicRepository, log *zap.Logger) *AccountService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountService{
		accounts: accounts,
		goals:    goals,
		topics:   topics,
		logger:   log,
		now:      time.Now,
	}
}

// WithClock overrides the service clock, used in tests.
func (s *AccountService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Get returns the account by identifier.
func (s *AccountService) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	return account, nil
}

// UpdateProfile changes the account's name and email.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID, name, email string) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	if err := s.accounts.UpdateProfile(ctx, accountID, name, email, s.now().UTC()); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrAccountNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return s.Get(ctx, accountID)
}

// ChangePassword updates the password after validating the current one.
func (s *AccountService) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	account, err := s.Get(ctx, accountID)
	if err != nil {
		return err
	}

	matches, err := security.VerifyPassword(currentPassword, account.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify current password: %w", err)
	}
	if !matches {
		return ErrInvalidCredentials
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.accounts.UpdatePassword(ctx, accountID, hash, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.Info("password changed", zap.String("account_id", accountID))
	return nil
}

// Delete removes the account and everything it owns.
func (s *AccountService) Delete(ctx context.Context, accountID string) error {
	if s.topics != nil {
		if err := s.topics.DeleteByAccount(ctx, accountID); err != nil {
			return fmt.Errorf("delete topics: %w", err)
		}
	}
	if s.goals != nil {
		if err := s.goals.DeleteByAccount(ctx, accountID); err != nil {
			return fmt.Errorf("delete goal: %w", err)
		}
	}

	if err := s.accounts.Delete(ctx, accountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}

	s.logger.Info("account deleted", zap.String("account_id", accountID))
	return nil
}
