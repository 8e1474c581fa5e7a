package repositories

import (
	"context"
	"sync"
	"time"
)

type stateEntry struct {
	provider  string
	expiresAt time.Time
}

// MemoryOAuthStateRepository keeps login states in process memory.
type MemoryOAuthStateRepository struct {
	states map[string]stateEntry
	now    func() time.Time
	mu     sync.Mutex
}

// NewMemoryOAuthStateRepository creates an empty state store.
func NewMemoryOAuthStateRepository() *MemoryOAuthStateRepository {
	return &MemoryOAuthStateRepository{
		states: make(map[string]stateEntry),
		now:    time.Now,
	}
}

// Save stores state and drops any entries that have already expired.
func (r *MemoryOAuthStateRepository) Save(_ context.Context, state, provider string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, e := range r.states {
		if !now.Before(e.expiresAt) {
			delete(r.states, k)
		}
	}
	r.states[state] = stateEntry{provider: provider, expiresAt: now.Add(ttl)}
	return nil
}

// Consume removes state and returns its provider if it has not expired.
func (r *MemoryOAuthStateRepository) Consume(_ context.Context, state string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.states[state]
	if !ok {
		return "", false, nil
	}
	delete(r.states, state)
	if !r.now().Before(e.expiresAt) {
		return "", false, nil
	}
	return e.provider, true, nil
}
