package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
	"github.com/Keerthithev/eduexpo/internal/infra/security"
)

func newResetFixture(t *testing.T) (*PasswordResetService, *accountRepoMock, *otpStoreMock, *mailerMock, *eventPublisherMock) {
	t.Helper()

	hash, err := security.HashPassword("original123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	accounts := newAccountRepoMock(domain.Account{
		ID:           "acc-1",
		Name:         "Student",
		Email:        "student@example.com",
		PasswordHash: hash,
	})
	store := newOTPStoreMock()
	mailer := &mailerMock{}
	events := &eventPublisherMock{}

	svc := NewPasswordResetService(accounts, store, mailer, events, nil,
		5*time.Minute, 60*time.Second, time.Hour, "http://localhost:5173")
	return svc, accounts, store, mailer, events
}

func TestPasswordReset_FullFlow(t *testing.T) {
	svc, accounts, store, mailer, events := newResetFixture(t)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })
	store.now = func() time.Time { return fixed }

	ctx := context.Background()
	if _, err := svc.SendOTP(ctx, "student@example.com"); err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}

	code := mailer.lastCode()
	if err := svc.VerifyOTP(ctx, "student@example.com", code); err != nil {
		t.Fatalf("VerifyOTP returned error: %v", err)
	}

	if err := svc.ResetPassword(ctx, "student@example.com", code, "newsecret"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	stored := accounts.passwords["acc-1"]
	if ok, _ := security.VerifyPassword("newsecret", stored); !ok {
		t.Fatal("expected new password stored")
	}
	if len(events.passwordChanged) != 1 || events.passwordChanged[0].Source != passwordResetSourceOTP {
		t.Fatalf("expected one otp_reset password changed event, got %+v", events.passwordChanged)
	}

	// The record is consumed: the code cannot be replayed.
	if err := svc.ResetPassword(ctx, "student@example.com", code, "another123"); !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Fatalf("expected ErrInvalidOrExpiredCode on replay, got %v", err)
	}
}

func TestPasswordReset_SendOTPCooldown(t *testing.T) {
	svc, _, store, mailer, _ := newResetFixture(t)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })
	store.now = func() time.Time { return fixed }

	ctx := context.Background()
	if _, err := svc.SendOTP(ctx, "student@example.com"); err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}

	svc.WithClock(func() time.Time { return fixed.Add(20 * time.Second) })
	store.now = func() time.Time { return fixed.Add(20 * time.Second) }
	_, err := svc.SendOTP(ctx, "student@example.com")
	var cooldown *ResendCooldownError
	if !errors.As(err, &cooldown) {
		t.Fatalf("expected ResendCooldownError, got %v", err)
	}
	if cooldown.RemainingSeconds() != 40 {
		t.Fatalf("expected 40 seconds remaining, got %d", cooldown.RemainingSeconds())
	}
	if len(mailer.otpSends) != 1 {
		t.Fatalf("expected no second delivery during cooldown, got %d", len(mailer.otpSends))
	}

	// After the cooldown a fresh code supersedes the old one.
	svc.WithClock(func() time.Time { return fixed.Add(61 * time.Second) })
	store.now = func() time.Time { return fixed.Add(61 * time.Second) }
	if _, err := svc.SendOTP(ctx, "student@example.com"); err != nil {
		t.Fatalf("SendOTP after cooldown returned error: %v", err)
	}
	if len(mailer.otpSends) != 2 {
		t.Fatalf("expected second delivery, got %d", len(mailer.otpSends))
	}
}

func TestPasswordReset_SendOTPUnknownEmailSucceeds(t *testing.T) {
	svc, _, _, mailer, _ := newResetFixture(t)

	exists, err := svc.SendOTP(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatalf("expected generic success for unknown email, got %v", err)
	}
	if exists {
		t.Fatal("expected emailExists false for unknown email")
	}
	if len(mailer.otpSends) != 0 {
		t.Fatal("expected no delivery for unknown email")
	}
}

func TestPasswordReset_ResendOTPUnknownEmailFails(t *testing.T) {
	svc, _, _, _, _ := newResetFixture(t)

	err := svc.ResendOTP(context.Background(), "ghost@example.com")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestPasswordReset_ResendOTPSupersedesWithinCooldown(t *testing.T) {
	svc, _, store, mailer, _ := newResetFixture(t)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })
	store.now = func() time.Time { return fixed }

	ctx := context.Background()
	if _, err := svc.SendOTP(ctx, "student@example.com"); err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}
	first := mailer.lastCode()

	// Resend right away, well inside the send cooldown.
	svc.WithClock(func() time.Time { return fixed.Add(5 * time.Second) })
	store.now = func() time.Time { return fixed.Add(5 * time.Second) }
	if err := svc.ResendOTP(ctx, "student@example.com"); err != nil {
		t.Fatalf("ResendOTP returned error: %v", err)
	}
	second := mailer.lastCode()

	if err := svc.VerifyOTP(ctx, "student@example.com", first); !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Fatalf("expected superseded code rejected, got %v", err)
	}
	if err := svc.VerifyOTP(ctx, "student@example.com", second); err != nil {
		t.Fatalf("expected fresh code accepted, got %v", err)
	}
}

func TestPasswordReset_VerifyOTPDoesNotConsume(t *testing.T) {
	svc, _, _, mailer, _ := newResetFixture(t)
	ctx := context.Background()

	if _, err := svc.SendOTP(ctx, "student@example.com"); err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}
	code := mailer.lastCode()

	for i := 0; i < 3; i++ {
		if err := svc.VerifyOTP(ctx, "student@example.com", code); err != nil {
			t.Fatalf("VerifyOTP attempt %d returned error: %v", i, err)
		}
	}
}

func TestPasswordReset_ResetPasswordExpiredCode(t *testing.T) {
	svc, _, store, mailer, _ := newResetFixture(t)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })
	store.now = func() time.Time { return fixed }

	ctx := context.Background()
	if _, err := svc.SendOTP(ctx, "student@example.com"); err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}
	code := mailer.lastCode()

	later := fixed.Add(5*time.Minute + time.Second)
	svc.WithClock(func() time.Time { return later })
	store.now = func() time.Time { return later }

	if err := svc.ResetPassword(ctx, "student@example.com", code, "newsecret"); !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Fatalf("expected ErrInvalidOrExpiredCode for expired code, got %v", err)
	}
}

func TestPasswordReset_ResetPasswordWeakPassword(t *testing.T) {
	svc, _, _, mailer, _ := newResetFixture(t)
	ctx := context.Background()

	// The password policy is checked before the code, so a weak password
	// wins even when no record exists yet.
	if err := svc.ResetPassword(ctx, "student@example.com", "000000", "tiny"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword before code check, got %v", err)
	}

	if _, err := svc.SendOTP(ctx, "student@example.com"); err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}
	code := mailer.lastCode()

	if err := svc.ResetPassword(ctx, "student@example.com", code, "tiny"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	// The code survives a rejected password.
	if err := svc.ResetPassword(ctx, "student@example.com", code, "longenough"); err != nil {
		t.Fatalf("expected code still valid, got %v", err)
	}
}

func TestPasswordReset_LinkFlow(t *testing.T) {
	svc, accounts, _, mailer, events := newResetFixture(t)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })

	ctx := context.Background()
	resetURL, err := svc.RequestResetLink(ctx, "student@example.com")
	if err != nil {
		t.Fatalf("RequestResetLink returned error: %v", err)
	}
	if len(mailer.linkSends) != 1 {
		t.Fatalf("expected one link delivery, got %d", len(mailer.linkSends))
	}
	if mailer.linkSends[0].url != resetURL {
		t.Fatalf("expected delivered url %q to match returned %q", mailer.linkSends[0].url, resetURL)
	}

	token := resetURL[strings.LastIndex(resetURL, "/")+1:]
	if token == "" {
		t.Fatalf("expected token embedded in url %q", resetURL)
	}

	if err := svc.ResetWithToken(ctx, token, "newsecret"); err != nil {
		t.Fatalf("ResetWithToken returned error: %v", err)
	}

	stored := accounts.passwords["acc-1"]
	if ok, _ := security.VerifyPassword("newsecret", stored); !ok {
		t.Fatal("expected new password stored")
	}
	if len(events.passwordChanged) != 1 || events.passwordChanged[0].Source != passwordResetSourceLink {
		t.Fatalf("expected link_reset event, got %+v", events.passwordChanged)
	}

	// Token is single use.
	if err := svc.ResetWithToken(ctx, token, "another123"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("expected ErrInvalidOrExpiredToken on reuse, got %v", err)
	}
}

func TestPasswordReset_LinkTokenExpires(t *testing.T) {
	svc, _, _, _, _ := newResetFixture(t)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })

	ctx := context.Background()
	resetURL, err := svc.RequestResetLink(ctx, "student@example.com")
	if err != nil {
		t.Fatalf("RequestResetLink returned error: %v", err)
	}
	token := resetURL[strings.LastIndex(resetURL, "/")+1:]

	svc.WithClock(func() time.Time { return fixed.Add(time.Hour + time.Minute) })
	if err := svc.ResetWithToken(ctx, token, "newsecret"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("expected ErrInvalidOrExpiredToken after expiry, got %v", err)
	}
}

func TestPasswordReset_RequestResetLinkUnknownEmail(t *testing.T) {
	svc, _, _, _, _ := newResetFixture(t)

	_, err := svc.RequestResetLink(context.Background(), "ghost@example.com")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestPasswordReset_LinkDeliveryFailureRollsBack(t *testing.T) {
	svc, accounts, _, mailer, _ := newResetFixture(t)
	mailer.failLink = true

	_, err := svc.RequestResetLink(context.Background(), "student@example.com")
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}
	if len(accounts.resetToken) != 0 {
		t.Fatal("expected token cleared after failed delivery")
	}
}
