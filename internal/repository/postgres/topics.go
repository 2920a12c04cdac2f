package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
	"github.com/Keerthithev/eduexpo/internal/core/port"
	"github.com/Keerthithev/eduexpo/internal/repository"
)

var topicColumns = []string{
	"id",
	"account_id",
	"goal_id",
	"name",
	"status",
	"created_at",
	"updated_at",
}

// TopicRepository implements port.TopicRepository using PostgreSQL.
type TopicRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTopicRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewTopicRepository(exec pgExecutor) *TopicRepository {
	repo := &TopicRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *TopicRepository) WithTx(tx pgx.Tx) *TopicRepository {
	if tx == nil {
		return r
	}
	return &TopicRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a topic row.
func (r *TopicRepository) Create(ctx context.Context, topic domain.Topic) error {
	stmt, args, err := r.builder.Insert("topics").
		Columns(topicColumns...).
		Values(
			topic.ID,
			topic.AccountID,
			topic.GoalID,
			topic.Name,
			topic.Status,
			topic.CreatedAt,
			topic.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert topic sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert topic: %w", err)
	}

	return nil
}

// GetByID retrieves a topic by identifier.
func (r *TopicRepository) GetByID(ctx context.Context, id string) (*domain.Topic, error) {
	stmt, args, err := r.builder.
		Select(topicColumns...).
		From("topics").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select topic sql: %w", err)
	}

	var topic domain.Topic
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&topic.ID,
		&topic.AccountID,
		&topic.GoalID,
		&topic.Name,
		&topic.Status,
		&topic.CreatedAt,
		&topic.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan topic: %w", err)
	}

	return &topic, nil
}

// ListByAccount returns the account's topics, newest first.
func (r *TopicRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Topic, error) {
	stmt, args, err := r.builder.
		Select(topicColumns...).
		From("topics").
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list topics sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	topics := make([]domain.Topic, 0)
	for rows.Next() {
		var topic domain.Topic
		if err := rows.Scan(
			&topic.ID,
			&topic.AccountID,
			&topic.GoalID,
			&topic.Name,
			&topic.Status,
			&topic.CreatedAt,
			&topic.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}

	return topics, nil
}

// Update rewrites the topic's name and status.
func (r *TopicRepository) Update(ctx context.Context, topic domain.Topic) error {
	stmt, args, err := r.builder.
		Update("topics").
		Set("name", topic.Name).
		Set("status", topic.Status).
		Set("updated_at", topic.UpdatedAt).
		Where(squirrel.Eq{"id": topic.ID, "account_id": topic.AccountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update topic sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a topic row.
func (r *TopicRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.
		Delete("topics").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete topic sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteByAccount removes all topics owned by the account.
func (r *TopicRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	stmt, args, err := r.builder.
		Delete("topics").
		Where(squirrel.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete topics sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete topics: %w", err)
	}

	return nil
}

var _ port.TopicRepository = (*TopicRepository)(nil)
