package admin

import (
	"context"
	"sync"

	"greenleaf/pkg/sentinel"
)

// MemoryStore keeps admin instances in memory. Used when no DATABASE_URL is
// configured and throughout the test suites.
type MemoryStore struct {
	mu         sync.RWMutex
	byUsername map[string]*Instance
}

// NewMemoryStore constructs an empty in-memory instance store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byUsername: make(map[string]*Instance)}
}

func (s *MemoryStore) Create(_ context.Context, instance *Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUsername[instance.Username]; ok {
		return sentinel.ErrAlreadyExists
	}
	copyInstance := *instance
	s.byUsername[instance.Username] = &copyInstance
	return nil
}

func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	instance, ok := s.byUsername[username]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyInstance := *instance
	return &copyInstance, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUsername), nil
}
