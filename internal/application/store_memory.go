package application

import (
	"context"
	"sync"

	"greenleaf/pkg/sentinel"
)

// MemoryStore keeps applications in memory. Used when no DATABASE_URL is
// configured and throughout the test suites.
type MemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]*Application
}

// NewMemoryStore constructs an empty in-memory application store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byEmail: make(map[string]*Application)}
}

func (s *MemoryStore) Create(_ context.Context, app *Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[app.Email]; ok {
		return sentinel.ErrAlreadyExists
	}
	copyApp := *app
	s.byEmail[app.Email] = &copyApp
	return nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyApp := *app
	return &copyApp, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail), nil
}
