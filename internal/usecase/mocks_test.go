package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
	"github.com/Keerthithev/eduexpo/internal/repository"
)

type accountRepoMock struct {
	byEmail map[string]domain.Account
	byID    map[string]domain.Account

	createErr  error
	created    []domain.Account
	passwords  map[string]string
	resetToken map[string]string
	resetExp   map[string]time.Time
	deleted    []string
}

func newAccountRepoMock(accounts ...domain.Account) *accountRepoMock {
	m := &accountRepoMock{
		byEmail:    make(map[string]domain.Account),
		byID:       make(map[string]domain.Account),
		passwords:  make(map[string]string),
		resetToken: make(map[string]string),
		resetExp:   make(map[string]time.Time),
	}
	for _, a := range accounts {
		m.byEmail[strings.ToLower(a.Email)] = a
		m.byID[a.ID] = a
	}
	return m
}

func (m *accountRepoMock) Create(_ context.Context, account domain.Account) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byEmail[strings.ToLower(account.Email)]; ok {
		return repository.ErrDuplicate
	}
	m.byEmail[strings.ToLower(account.Email)] = account
	m.byID[account.ID] = account
	m.created = append(m.created, account)
	return nil
}

func (m *accountRepoMock) GetByID(_ context.Context, id string) (*domain.Account, error) {
	if a, ok := m.byID[id]; ok {
		copy := a
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *accountRepoMock) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	if a, ok := m.byEmail[strings.ToLower(email)]; ok {
		copy := a
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *accountRepoMock) UpdateProfile(_ context.Context, id, name, email string, updatedAt time.Time) error {
	a, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(m.byEmail, strings.ToLower(a.Email))
	a.Name, a.Email, a.UpdatedAt = name, email, updatedAt
	m.byID[id] = a
	m.byEmail[strings.ToLower(email)] = a
	return nil
}

func (m *accountRepoMock) UpdatePassword(_ context.Context, id, passwordHash string, changedAt time.Time) error {
	a, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = passwordHash
	a.UpdatedAt = changedAt
	m.byID[id] = a
	m.byEmail[strings.ToLower(a.Email)] = a
	m.passwords[id] = passwordHash
	return nil
}

func (m *accountRepoMock) Delete(_ context.Context, id string) error {
	a, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	delete(m.byEmail, strings.ToLower(a.Email))
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *accountRepoMock) SetResetToken(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	m.resetToken[id] = tokenHash
	m.resetExp[id] = expiresAt
	return nil
}

func (m *accountRepoMock) GetByResetTokenHash(_ context.Context, tokenHash string, now time.Time) (*domain.Account, error) {
	for id, hash := range m.resetToken {
		if hash == tokenHash && m.resetExp[id].After(now) {
			a := m.byID[id]
			copy := a
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *accountRepoMock) ClearResetToken(_ context.Context, id string) error {
	delete(m.resetToken, id)
	delete(m.resetExp, id)
	return nil
}

type otpStoreMock struct {
	records map[string]domain.OTPRecord
	now     func() time.Time

	putErr error
}

func newOTPStoreMock() *otpStoreMock {
	return &otpStoreMock{
		records: make(map[string]domain.OTPRecord),
		now:     time.Now,
	}
}

func (m *otpStoreMock) key(purpose domain.OTPPurpose, email string) string {
	return fmt.Sprintf("%s:%s", purpose, strings.ToLower(email))
}

func (m *otpStoreMock) Put(_ context.Context, record domain.OTPRecord) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.records[m.key(record.Purpose, record.Email)] = record
	return nil
}

func (m *otpStoreMock) Get(_ context.Context, purpose domain.OTPPurpose, email string) (*domain.OTPRecord, error) {
	record, ok := m.records[m.key(purpose, email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if record.Expired(m.now().UTC()) {
		return nil, repository.ErrNotFound
	}
	copy := record
	return &copy, nil
}

func (m *otpStoreMock) MarkVerified(_ context.Context, purpose domain.OTPPurpose, email string) error {
	key := m.key(purpose, email)
	record, ok := m.records[key]
	if !ok || record.Expired(m.now().UTC()) {
		return repository.ErrNotFound
	}
	record.Verified = true
	m.records[key] = record
	return nil
}

func (m *otpStoreMock) Delete(_ context.Context, purpose domain.OTPPurpose, email string) error {
	key := m.key(purpose, email)
	if _, ok := m.records[key]; !ok {
		return repository.ErrNotFound
	}
	delete(m.records, key)
	return nil
}

type mailerMock struct {
	otpSends  []mailerSend
	linkSends []mailerSend
	failOTP   bool
	failLink  bool
}

type mailerSend struct {
	email string
	code  string
	url   string
}

func (m *mailerMock) SendOTP(_ context.Context, email, code string, _ domain.OTPPurpose) error {
	if m.failOTP {
		return errors.New("smtp unavailable")
	}
	m.otpSends = append(m.otpSends, mailerSend{email: email, code: code})
	return nil
}

func (m *mailerMock) SendResetLink(_ context.Context, email, resetURL string) error {
	if m.failLink {
		return errors.New("smtp unavailable")
	}
	m.linkSends = append(m.linkSends, mailerSend{email: email, url: resetURL})
	return nil
}

func (m *mailerMock) lastCode() string {
	if len(m.otpSends) == 0 {
		return ""
	}
	return m.otpSends[len(m.otpSends)-1].code
}

type eventPublisherMock struct {
	accountCreated  []domain.AccountCreatedEvent
	passwordChanged []domain.PasswordChangedEvent
	otpIssued       []domain.OTPIssuedEvent
}

func (m *eventPublisherMock) PublishAccountCreated(_ context.Context, event domain.AccountCreatedEvent) error {
	m.accountCreated = append(m.accountCreated, event)
	return nil
}

func (m *eventPublisherMock) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	m.passwordChanged = append(m.passwordChanged, event)
	return nil
}

func (m *eventPublisherMock) PublishOTPIssued(_ context.Context, event domain.OTPIssuedEvent) error {
	m.otpIssued = append(m.otpIssued, event)
	return nil
}

type goalRepoMock struct {
	byAccount map[string]domain.Goal
	createErr error
}

func newGoalRepoMock() *goalRepoMock {
	return &goalRepoMock{byAccount: make(map[string]domain.Goal)}
}

func (m *goalRepoMock) Create(_ context.Context, goal domain.Goal) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.byAccount[goal.AccountID] = goal
	return nil
}

func (m *goalRepoMock) GetByAccount(_ context.Context, accountID string) (*domain.Goal, error) {
	if g, ok := m.byAccount[accountID]; ok {
		copy := g
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *goalRepoMock) Update(_ context.Context, goal domain.Goal) error {
	if _, ok := m.byAccount[goal.AccountID]; !ok {
		return repository.ErrNotFound
	}
	m.byAccount[goal.AccountID] = goal
	return nil
}

func (m *goalRepoMock) DeleteByAccount(_ context.Context, accountID string) error {
	delete(m.byAccount, accountID)
	return nil
}

type topicRepoMock struct {
	byID map[string]domain.Topic
}

func newTopicRepoMock() *topicRepoMock {
	return &topicRepoMock{byID: make(map[string]domain.Topic)}
}

func (m *topicRepoMock) Create(_ context.Context, topic domain.Topic) error {
	m.byID[topic.ID] = topic
	return nil
}

func (m *topicRepoMock) GetByID(_ context.Context, id string) (*domain.Topic, error) {
	if tpc, ok := m.byID[id]; ok {
		copy := tpc
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *topicRepoMock) ListByAccount(_ context.Context, accountID string) ([]domain.Topic, error) {
	var topics []domain.Topic
	for _, tpc := range m.byID {
		if tpc.AccountID == accountID {
			topics = append(topics, tpc)
		}
	}
	return topics, nil
}

func (m *topicRepoMock) Update(_ context.Context, topic domain.Topic) error {
	if _, ok := m.byID[topic.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[topic.ID] = topic
	return nil
}

func (m *topicRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *topicRepoMock) DeleteByAccount(_ context.Context, accountID string) error {
	for id, tpc := range m.byID {
		if tpc.AccountID == accountID {
			delete(m.byID, id)
		}
	}
	return nil
}
