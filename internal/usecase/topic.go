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

// TopicService manages the study topics attached to an account's goal.
type TopicService struct {
	topics port.TopicRepository
	goals  port.GoalRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewTopicService constructs a TopicService.
func NewTopicService(topics port.TopicRepository, goals port.GoalRepository, log *zap.Logger) *TopicService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TopicService{
		topics: topics,
		goals:  goals,
		logger: log,
		now:    time.Now,
	}
}

// WithClock overrides the service clock, used in tests.
func (s *TopicService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Add creates a pending topic under the account's goal.
func (s *TopicService) Add(ctx context.Context, accountID, name string) (*domain.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	goal, err := s.goals.GetByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("lookup goal: %w", err)
	}

	now := s.now().UTC()
	topic := domain.Topic{
		ID:        uuid.NewString(),
		AccountID: accountID,
		GoalID:    goal.ID,
		Name:      name,
		Status:    domain.TopicStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.topics.Create(ctx, topic); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}

	return &topic, nil
}

// List returns the account's topics.
func (s *TopicService) List(ctx context.Context, accountID string) ([]domain.Topic, error) {
	topics, err := s.topics.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

// Rename changes the topic's name.
func (s *TopicService) Rename(ctx context.Context, accountID, topicID, name string) (*domain.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	topic, err := s.owned(ctx, accountID, topicID)
	if err != nil {
		return nil, err
	}

	topic.Name = name
	topic.UpdatedAt = s.now().UTC()
	if err := s.topics.Update(ctx, *topic); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("update topic: %w", err)
	}

	return topic, nil
}

// Toggle flips the topic between pending and completed.
func (s *TopicService) Toggle(ctx context.Context, accountID, topicID string) (*domain.Topic, error) {
	topic, err := s.owned(ctx, accountID, topicID)
	if err != nil {
		return nil, err
	}

	topic.Status = topic.Status.Toggle()
	topic.UpdatedAt = s.now().UTC()
	if err := s.topics.Update(ctx, *topic); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("update topic: %w", err)
	}

	return topic, nil
}

// Remove deletes the topic.
func (s *TopicService) Remove(ctx context.Context, accountID, topicID string) error {
	if _, err := s.owned(ctx, accountID, topicID); err != nil {
		return err
	}

	if err := s.topics.Delete(ctx, topicID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTopicNotFound
		}
		return fmt.Errorf("delete topic: %w", err)
	}

	return nil
}

// owned fetches the topic and hides other accounts' topics behind not-found.
func (s *TopicService) owned(ctx context.Context, accountID, topicID string) (*domain.Topic, error) {
	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("lookup topic: %w", err)
	}
	if topic.AccountID != accountID {
		return nil, ErrTopicNotFound
	}
	return topic, nil
}
