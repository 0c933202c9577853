package store

import (
	"context"
	"slices"
	"sync"

	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
)

// Store keeps the ledger in memory. Each Append is applied under the write lock, so a batch of
// events becomes visible to readers all at once.
type Store struct {
	mu    sync.RWMutex
	state *ledger.State
	log   []ledger.Event
}

// New returns a store starting from initial, or from an empty ledger when initial is nil.
// The store takes its own copy of initial.
func New(initial *ledger.State) *Store {
	if initial == nil {
		initial = &ledger.State{}
	}

	return &Store{state: initial.Clone()}
}

// NewSeeded returns a store holding the demo catalogue.
func NewSeeded() *Store {
	return New(ledger.SeedState())
}

func (s *Store) Append(ctx context.Context, events ...ledger.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Apply(events...)
	s.log = append(s.log, events...)

	return nil
}

func (s *Store) Snapshot(ctx context.Context) (*ledger.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Clone(), nil
}

// Log returns the events applied since the store was created, oldest first. It is not part of
// ledger.Repository; tests use it to check which transitions were applied.
func (s *Store) Log() []ledger.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.log)
}
