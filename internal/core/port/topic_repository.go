package port

import (
	"context"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
)

// TopicRepository persists topics attached to an account's goal.
type TopicRepository interface {
	Create(ctx context.Context, topic domain.Topic) error
	GetByID(ctx context.Context, id string) (*domain.Topic, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.Topic, error)
	Update(ctx context.Context, topic domain.Topic) error
	Delete(ctx context.Context, id string) error
	DeleteByAccount(ctx context.Context, accountID string) error
}
