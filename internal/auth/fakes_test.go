package auth

import (
	"context"
	"sync"
	"time"

	"github.com/money-manager/money-manager/internal/shared"
	"github.com/money-manager/money-manager/internal/users"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]users.User
	calls int
	err   error
}

func newFakeUsers(ids ...int64) *fakeUsers {
	f := &fakeUsers{users: map[int64]users.User{}}
	for _, id := range ids {
		f.users[id] = users.User{ID: id, Name: "User", Surname: "Test"}
	}
	return f
}

func (f *fakeUsers) Get(_ context.Context, id int64) (users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return users.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return users.User{}, shared.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) remove(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
}

type memStore struct {
	mu     sync.Mutex
	byUser map[int64]Credential
}

func newMemStore() *memStore {
	return &memStore{byUser: map[int64]Credential{}}
}

func (m *memStore) Create(_ context.Context, c Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUser[c.UserID]; ok {
		return shared.ErrDuplicate
	}
	for _, existing := range m.byUser {
		if existing.Email == c.Email {
			return shared.ErrDuplicate
		}
	}
	m.byUser[c.UserID] = c
	return nil
}

func (m *memStore) Get(_ context.Context, userID int64) (Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byUser[userID]
	if !ok {
		return Credential{}, shared.ErrNotFound
	}
	return c, nil
}

func (m *memStore) FindByEmail(_ context.Context, email string) (Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byUser {
		if c.Email == email {
			return c, nil
		}
	}
	return Credential{}, shared.ErrNotFound
}

func (m *memStore) Update(_ context.Context, userID int64, email string, s Secret) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byUser[userID]
	if !ok {
		return 0, nil
	}
	c.Email = email
	c.Secret = s
	m.byUser[userID] = c
	return 1, nil
}

func (m *memStore) UpdateLastLogin(_ context.Context, userID int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byUser[userID]
	if !ok {
		return shared.ErrNotFound
	}
	c.LastLogin = &at
	m.byUser[userID] = c
	return nil
}

func (m *memStore) Delete(_ context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUser[userID]; !ok {
		return 0, nil
	}
	delete(m.byUser, userID)
	return 1, nil
}

type memRevocations struct {
	mu    sync.Mutex
	since map[int64]time.Time
	err   error
}

func newMemRevocations() *memRevocations {
	return &memRevocations{since: map[int64]time.Time{}}
}

func (m *memRevocations) ValidSince(_ context.Context, userID int64) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return time.Time{}, m.err
	}
	return m.since[userID], nil
}

func (m *memRevocations) RevokeAll(_ context.Context, userID int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.since[userID] = time.Unix(at.Unix(), 0)
	return nil
}

type recordingObserver struct {
	mu      sync.Mutex
	reasons []string
	details []string
}

func (o *recordingObserver) ObserveAuthRejection(reason, detail string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reasons = append(o.reasons, reason)
	o.details = append(o.details, detail)
}

var (
	_ Store           = (*memStore)(nil)
	_ RevocationStore = (*memRevocations)(nil)
	_ UserLookup      = (*fakeUsers)(nil)
)
