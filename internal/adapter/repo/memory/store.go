package memory

import (
	"context"
	"sync"

	"marketsim/internal/domain/economy"
)

type Store struct {
	mu    sync.RWMutex
	world *economy.World
	logs  []economy.LogEntry
}

func NewStore() *Store {
	return &Store{logs: []economy.LogEntry{}}
}

type txKey struct{}

// read runs fn under the read lock unless ctx already holds the store through RunInTx.
func (s *Store) read(ctx context.Context, fn func()) {
	if ctx.Value(txKey{}) == s {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) write(ctx context.Context, fn func() error) error {
	if ctx.Value(txKey{}) == s {
		return fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}
