package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
	"github.com/Keerthithev/eduexpo/internal/infra/security"
)

func newAccountFixture(t *testing.T) (*AccountService, *accountRepoMock, *goalRepoMock, *topicRepoMock) {
	t.Helper()

	hash, err := security.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	accounts := newAccountRepoMock(domain.Account{
		ID:           "acc-1",
		Name:         "Student",
		Email:        "student@example.com",
		PasswordHash: hash,
	})
	goals := newGoalRepoMock()
	topics := newTopicRepoMock()

	return NewAccountService(accounts, goals, topics, nil), accounts, goals, topics
}

func TestAccount_UpdateProfile(t *testing.T) {
	svc, _, _, _ := newAccountFixture(t)

	account, err := svc.UpdateProfile(context.Background(), "acc-1", "Renamed", "renamed@example.com")
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if account.Name != "Renamed" || account.Email != "renamed@example.com" {
		t.Fatalf("unexpected profile: %+v", account)
	}
}

func TestAccount_ChangePasswordValidatesCurrent(t *testing.T) {
	svc, accounts, _, _ := newAccountFixture(t)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, "acc-1", "wrongpass", "newsecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := svc.ChangePassword(ctx, "acc-1", "secret123", "tiny"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if err := svc.ChangePassword(ctx, "acc-1", "secret123", "newsecret"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if ok, _ := security.VerifyPassword("newsecret", accounts.passwords["acc-1"]); !ok {
		t.Fatal("expected new password stored")
	}
}

func TestAccount_DeleteCascades(t *testing.T) {
	svc, accounts, goals, topics := newAccountFixture(t)
	goals.byAccount["acc-1"] = domain.Goal{ID: "goal-1", AccountID: "acc-1"}
	topics.byID["t-1"] = domain.Topic{ID: "t-1", AccountID: "acc-1", GoalID: "goal-1"}

	if err := svc.Delete(context.Background(), "acc-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(accounts.byID) != 0 {
		t.Fatal("expected account removed")
	}
	if len(goals.byAccount) != 0 || len(topics.byID) != 0 {
		t.Fatal("expected goal and topics removed with the account")
	}
}

func TestAccount_GetMissing(t *testing.T) {
	svc, _, _, _ := newAccountFixture(t)

	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
