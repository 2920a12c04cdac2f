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
	"github.com/Keerthithev/eduexpo/internal/repository"
)

// GoalService manages the single learning goal owned by each account.
type GoalService struct {
	goals  port.GoalRepository
	topics port.TopicRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewGoalService constructs a GoalService.
func NewGoalService(goals port.GoalRepository, topics port.TopicRepository, log *zap.Logger) *GoalService {
	if log == nil {
		log = zap.NewNop()
	}
	return &GoalService{
		goals:  goals,
		topics: topics,
		logger: log,
		now:    time.Now,
	}
}

// WithClock overrides the service clock, used in tests.
func (s *GoalService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Get returns the account's goal.
func (s *GoalService) Get(ctx context.Context, accountID string) (*domain.Goal, error) {
	goal, err := s.goals.GetByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("lookup goal: %w", err)
	}
	return goal, nil
}

// Upsert rewrites the account's goal, creating it when none exists yet.
func (s *GoalService) Upsert(ctx context.Context, accountID, title, description string) (*domain.Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	now := s.now().UTC()

	existing, err := s.goals.GetByAccount(ctx, accountID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("lookup goal: %w", err)
		}

		goal := domain.Goal{
			ID:          uuid.NewString(),
			AccountID:   accountID,
			Title:       title,
			Description: strings.TrimSpace(description),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.goals.Create(ctx, goal); err != nil {
			return nil, fmt.Errorf("create goal: %w", err)
		}
		return &goal, nil
	}

	existing.Title = title
	existing.Description = strings.TrimSpace(description)
	existing.UpdatedAt = now
	if err := s.goals.Update(ctx, *existing); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}

	return existing, nil
}

// Reset deletes the account's goal along with its topics.
func (s *GoalService) Reset(ctx context.Context, accountID string) error {
	if s.topics != nil {
		if err := s.topics.DeleteByAccount(ctx, accountID); err != nil {
			return fmt.Errorf("delete topics: %w", err)
		}
	}

	if err := s.goals.DeleteByAccount(ctx, accountID); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}

	s.logger.Info("goal reset", zap.String("account_id", accountID))
	return nil
}
