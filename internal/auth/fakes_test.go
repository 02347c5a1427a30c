package auth

import (
	"context"
	"sync"

	"github.com/iliyamo/catalog-backend/internal/model"
	"github.com/iliyamo/catalog-backend/internal/queue"
)

// memStore is an in-memory AccountStore enforcing the unique email index.
type memStore struct {
	mu           sync.Mutex
	byEmail      map[string]model.Account
	nextID       uint64
	creates      int
	missingRoles map[model.Role]bool
	lookupErr    error
}

func newMemStore() *memStore {
	return &memStore{byEmail: map[string]model.Account{}, missingRoles: map[model.Role]bool{}}
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	a, ok := m.byEmail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &a, nil
}

func (m *memStore) GetByID(_ context.Context, id uint64) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byEmail {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (m *memStore) Create(_ context.Context, a *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.missingRoles[a.Role] {
		return ErrRoleNotConfigured
	}
	if _, exists := m.byEmail[a.Email]; exists {
		return ErrDuplicateEmail
	}
	m.nextID++
	a.ID = m.nextID
	m.byEmail[a.Email] = *a
	return nil
}

func (m *memStore) ListRoles(context.Context) ([]model.RoleRecord, error) {
	return []model.RoleRecord{{ID: 1, Name: "admin"}, {ID: 2, Name: "seller"}, {ID: 3, Name: "buyer"}}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}
