package port

import (
	"context"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
)

// GoalRepository persists the single learning goal per account.
type GoalRepository interface {
	Create(ctx context.Context, goal domain.Goal) error
	GetByAccount(ctx context.Context, accountID string) (*domain.Goal, error)
	Update(ctx context.Context, goal domain.Goal) error
	DeleteByAccount(ctx context.Context, accountID string) error
}
