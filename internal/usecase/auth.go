package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
	"github.com/Keerthithev/eduexpo/internal/core/port"
	"github.com/Keerthithev/eduexpo/internal/infra/logger"
	"github.com/Keerthithev/eduexpo/internal/infra/security"
	"github.com/Keerthithev/eduexpo/internal/repository"
)

// AuthService authenticates accounts and resolves bearer credentials.
type AuthService struct {
	accounts port.AccountRepository
	tokens   *security.TokenIssuer
	logger   *zap.Logger
	now      func() time.Time
}

// LoginResult carries the authenticated account and its session credential.
type LoginResult struct {
	Account domain.Account
	Token   string
}

// NewAuthService constructs an AuthService.
func NewAuthService(accounts port.AccountRepository, tokens *security.TokenIssuer, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
		logger:   log,
		now:      time.Now,
	}
}

// Login validates the email/password pair and mints a bearer credential.
// Unknown email and wrong password collapse into the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	matches, err := security.VerifyPassword(password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !matches {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("login succeeded",
		zap.String("account_id", account.ID),
		zap.String("email", logger.MaskEmail(email)),
	)

	return &LoginResult{Account: *account, Token: token}, nil
}

// Authenticate resolves a bearer credential to its account.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	accountID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	return account, nil
}
