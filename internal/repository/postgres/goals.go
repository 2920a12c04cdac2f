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

// GoalRepository implements port.GoalRepository using PostgreSQL.
type GoalRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewGoalRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewGoalRepository(exec pgExecutor) *GoalRepository {
	repo := &GoalRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *GoalRepository) WithTx(tx pgx.Tx) *GoalRepository {
	if tx == nil {
		return r
	}
	return &GoalRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a goal row.
func (r *GoalRepository) Create(ctx context.Context, goal domain.Goal) error {
	stmt, args, err := r.builder.Insert("goals").
		Columns("id", "account_id", "title", "description", "created_at", "updated_at").
		Values(goal.ID, goal.AccountID, goal.Title, goal.Description, goal.CreatedAt, goal.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert goal sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}

	return nil
}

// GetByAccount retrieves the account's goal. Accounts hold at most one; the
// newest wins if legacy rows left more than one behind.
func (r *GoalRepository) GetByAccount(ctx context.Context, accountID string) (*domain.Goal, error) {
	stmt, args, err := r.builder.
		Select("id", "account_id", "title", "description", "created_at", "updated_at").
		From("goals").
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select goal sql: %w", err)
	}

	var goal domain.Goal
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&goal.ID,
		&goal.AccountID,
		&goal.Title,
		&goal.Description,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan goal: %w", err)
	}

	return &goal, nil
}

// Update rewrites the goal's title and description.
func (r *GoalRepository) Update(ctx context.Context, goal domain.Goal) error {
	stmt, args, err := r.builder.
		Update("goals").
		Set("title", goal.Title).
		Set("description", goal.Description).
		Set("updated_at", goal.UpdatedAt).
		Where(squirrel.Eq{"id": goal.ID, "account_id": goal.AccountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update goal sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteByAccount removes the account's goal rows.
func (r *GoalRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	stmt, args, err := r.builder.
		Delete("goals").
		Where(squirrel.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete goal sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}

	return nil
}

var _ port.GoalRepository = (*GoalRepository)(nil)
