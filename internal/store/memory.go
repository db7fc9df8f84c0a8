package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-memory Store with the same uniqueness guarantees as the
// Postgres implementation. It backs tests and local development without a
// database.
type Memory struct {
	mu    sync.Mutex
	users map[string]*User // keyed by lowercased email
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]*User)}
}

func key(email string) string {
	return strings.ToLower(email)
}

func (m *Memory) FindByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[key(email)]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *u
	return &cp, nil
}

func (m *Memory) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}

	return nil, ErrNotFound
}

func (m *Memory) CreateLocal(ctx context.Context, email, credential string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[key(email)]; ok {
		return nil, ErrEmailTaken
	}

	u := &User{
		ID:         uuid.New(),
		Email:      email,
		Credential: credential,
	}
	m.users[key(email)] = u

	cp := *u
	return &cp, nil
}

func (m *Memory) FindOrCreateFederated(ctx context.Context, email, credential string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[key(email)]; ok {
		cp := *u
		return &cp, nil
	}

	u := &User{
		ID:         uuid.New(),
		Email:      email,
		Credential: credential,
	}
	m.users[key(email)] = u

	cp := *u
	return &cp, nil
}

func (m *Memory) UpdateSecret(ctx context.Context, id uuid.UUID, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			u.Secret = secret
			return nil
		}
	}

	return ErrNotFound
}

// Len reports the number of stored records.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}
