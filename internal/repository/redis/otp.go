package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
	"github.com/Keerthithev/eduexpo/internal/core/port"
	"github.com/Keerthithev/eduexpo/internal/repository"
)

const (
	defaultOTPPrefix = "otp"

	fieldCodeHash    = "code_hash"
	fieldPendingName = "pending_name"
	fieldVerified    = "verified"
	fieldCreatedAt   = "created_at"
	fieldExpiresAt   = "expires_at"
)

// OTPStore persists in-flight verification codes in Redis, keyed by
// (purpose, email). Writing a record replaces whatever was live for the key,
// so a resend always supersedes the previous code.
type OTPStore struct {
	client *red.Client
	prefix string
	now    func() time.Time
}

// NewOTPStore constructs a store with the provided Redis client and key prefix.
func NewOTPStore(client *red.Client, keyPrefix string) *OTPStore {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultOTPPrefix
	}

	return &OTPStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *OTPStore) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Put stores the record, replacing any live record for the same key. The Del
// in the pipeline clears stale fields such as a verified flag left by the
// superseded record.
func (s *OTPStore) Put(ctx context.Context, record domain.OTPRecord) error {
	key := s.key(record.Purpose, record.Email)
	if key == "" {
		return errors.New("purpose and email are required")
	}
	if record.CodeHash == "" {
		return errors.New("code hash is required")
	}

	ttl := record.ExpiresAt.Sub(record.CreatedAt)
	if ttl <= 0 {
		return errors.New("record already expired")
	}

	fields := map[string]any{
		fieldCodeHash:  record.CodeHash,
		fieldVerified:  boolField(record.Verified),
		fieldCreatedAt: strconv.FormatInt(record.CreatedAt.Unix(), 10),
		fieldExpiresAt: strconv.FormatInt(record.ExpiresAt.Unix(), 10),
	}
	if record.PendingName != "" {
		fields[fieldPendingName] = record.PendingName
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store otp: %w", err)
	}

	return nil
}

// Get retrieves the live record for the key. An expired record is treated as
// absent even when Redis has not reaped it yet.
func (s *OTPStore) Get(ctx context.Context, purpose domain.OTPPurpose, email string) (*domain.OTPRecord, error) {
	key := s.key(purpose, email)
	if key == "" {
		return nil, errors.New("purpose and email are required")
	}

	values, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall otp: %w", err)
	}
	if len(values) == 0 {
		return nil, repository.ErrNotFound
	}

	codeHash := strings.TrimSpace(values[fieldCodeHash])
	if codeHash == "" {
		return nil, repository.ErrNotFound
	}

	createdAt, err := parseUnix(values[fieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	expiresAt, err := parseUnix(values[fieldExpiresAt])
	if err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}

	record := domain.OTPRecord{
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Purpose:     purpose,
		CodeHash:    codeHash,
		Verified:    values[fieldVerified] == "1",
		CreatedAt:   createdAt,
		ExpiresAt:   expiresAt,
		PendingName: values[fieldPendingName],
	}

	if record.Expired(s.now().UTC()) {
		return nil, repository.ErrNotFound
	}

	return &record, nil
}

// MarkVerified flips the verified flag on a live record.
func (s *OTPStore) MarkVerified(ctx context.Context, purpose domain.OTPPurpose, email string) error {
	if _, err := s.Get(ctx, purpose, email); err != nil {
		return err
	}

	key := s.key(purpose, email)
	if err := s.client.HSet(ctx, key, fieldVerified, "1").Err(); err != nil {
		return fmt.Errorf("redis mark otp verified: %w", err)
	}

	return nil
}

// Delete removes the record, enforcing single-use semantics.
func (s *OTPStore) Delete(ctx context.Context, purpose domain.OTPPurpose, email string) error {
	key := s.key(purpose, email)
	if key == "" {
		return errors.New("purpose and email are required")
	}

	deleted, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis delete otp: %w", err)
	}
	if deleted == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (s *OTPStore) key(purpose domain.OTPPurpose, email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if purpose == "" || normalized == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s:%s", s.prefix, purpose, normalized)
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func parseUnix(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, errors.New("timestamp is empty")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(v, 0).UTC(), nil
}

var _ port.OTPStore = (*OTPStore)(nil)
