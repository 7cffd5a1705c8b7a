package repository

import (
	"context"
	"sync"

	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/ports"
)

// MemorySessionRepository keeps the session pair in process memory.
// It backs --ephemeral runs and tests.
type MemorySessionRepository struct {
	mu      sync.Mutex
	session *entities.Session

	// SaveErr, when set, is returned by Save without storing anything.
	SaveErr error
}

// NewMemorySessionRepository creates an empty in-memory session store
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{}
}

var _ ports.SessionStorage = (*MemorySessionRepository)(nil)

func (r *MemorySessionRepository) Load(ctx context.Context) (*entities.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return nil, nil
	}
	s := *r.session
	return &s, nil
}

func (r *MemorySessionRepository) Save(ctx context.Context, session entities.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.session = &session
	return nil
}

func (r *MemorySessionRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session = nil
	return nil
}
