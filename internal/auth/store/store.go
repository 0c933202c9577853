package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/MrJamesThe3rd/stockroom/internal/auth"
)

// Store keeps accounts, federated users and pending sign-ins in memory.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]auth.Account
	federated map[string]auth.User
	pending   map[string]auth.PendingIdentity
	local     int
}

func New() *Store {
	return &Store{
		accounts:  make(map[string]auth.Account),
		federated: make(map[string]auth.User),
		pending:   make(map[string]auth.PendingIdentity),
	}
}

type seedAccount struct {
	username string
	password string
	role     auth.Role
}

var demoAccounts = []seedAccount{
	{username: "admin", password: "admin123", role: auth.RoleAdmin},
	{username: "empleado", password: "emp123", role: auth.RoleEmployee},
}

// NewSeeded returns a store holding the demo accounts, ids "1" and "2".
func NewSeeded() (*Store, error) {
	s := New()

	for _, a := range demoAccounts {
		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return nil, fmt.Errorf("hashing seed password: %w", err)
		}

		if _, err := s.CreateAccount(context.Background(), a.username, hash, a.role); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) FindByUsername(_ context.Context, username string) (*auth.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[username]
	if !ok {
		return nil, auth.ErrUserNotFound
	}

	return &acc, nil
}

func (s *Store) FindUser(_ context.Context, id string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acc := range s.accounts {
		if acc.ID == id {
			return &acc.User, nil
		}
	}

	if u, ok := s.federated[id]; ok {
		return &u, nil
	}

	return nil, auth.ErrUserNotFound
}

func (s *Store) CreateAccount(_ context.Context, username string, passwordHash []byte, role auth.Role) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.accounts[username]; taken {
		return nil, auth.ErrUsernameTaken
	}

	s.local++
	acc := auth.Account{
		User: auth.User{
			ID:       strconv.Itoa(s.local),
			Username: username,
			Role:     role,
		},
		PasswordHash: passwordHash,
	}
	s.accounts[username] = acc

	return &acc.User, nil
}

func (s *Store) SaveFederated(_ context.Context, user auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.federated[user.ID] = user

	return nil
}

func (s *Store) SavePending(_ context.Context, pending auth.PendingIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[pending.ID] = pending

	return nil
}

func (s *Store) TakePending(_ context.Context, id string) (*auth.PendingIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[id]
	if !ok {
		return nil, auth.ErrPendingNotFound
	}

	delete(s.pending, id)

	return &p, nil
}
