package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
	"github.com/Keerthithev/eduexpo/internal/repository"
)

func newAccountMock(t *testing.T) (pgxmock.PgxPoolIface, *AccountRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	return mock, NewAccountRepository(mock)
}

func accountRow(createdAt time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(accountColumns).
		AddRow("acc-1", "Student", "student@example.com", "hash", true, nil, nil, createdAt, createdAt)
}

func TestAccountRepository_Create(t *testing.T) {
	mock, repo := newAccountMock(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO accounts`).
		WithArgs("acc-1", "Student", "student@example.com", "hash", true, now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), domain.Account{
		ID:              "acc-1",
		Name:            "Student",
		Email:           "student@example.com",
		PasswordHash:    "hash",
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_CreateDuplicateEmail(t *testing.T) {
	mock, repo := newAccountMock(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO accounts`).
		WithArgs("acc-1", "Student", "student@example.com", "hash", true, now, now).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), domain.Account{
		ID:              "acc-1",
		Name:            "Student",
		Email:           "student@example.com",
		PasswordHash:    "hash",
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestAccountRepository_GetByEmail(t *testing.T) {
	mock, repo := newAccountMock(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM accounts WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("student@example.com").
		WillReturnRows(accountRow(now))

	account, err := repo.GetByEmail(context.Background(), "student@example.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if account.ID != "acc-1" || account.Email != "student@example.com" {
		t.Fatalf("unexpected account: %+v", account)
	}
	if account.ResetTokenHash != "" || account.ResetTokenExpiresAt != nil {
		t.Fatalf("expected empty reset token fields, got %+v", account)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_GetByIDNotFound(t *testing.T) {
	mock, repo := newAccountMock(t)

	mock.ExpectQuery(`SELECT .+ FROM accounts WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAccountRepository_UpdateProfileNotFound(t *testing.T) {
	mock, repo := newAccountMock(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE accounts SET`).
		WithArgs("Student", "student@example.com", now, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateProfile(context.Background(), "missing", "Student", "student@example.com", now)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAccountRepository_GetByResetTokenHashExpired(t *testing.T) {
	mock, repo := newAccountMock(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// An expired token never matches the expiry guard, so no row comes back.
	mock.ExpectQuery(`SELECT .+ FROM accounts WHERE reset_token_hash = \$1 AND reset_token_expires_at > \$2`).
		WithArgs("tokenhash", now).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByResetTokenHash(context.Background(), "tokenhash", now)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAccountRepository_Delete(t *testing.T) {
	mock, repo := newAccountMock(t)

	mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1`).
		WithArgs("acc-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.Delete(context.Background(), "acc-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
