package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/infrastructure/logger"
	"github.com/taskmaster/kanban/internal/ports"
)

// SessionService owns the signed-in token and user. It is the only component
// that reads or writes session storage; everything else asks it.
type SessionService struct {
	storage ports.SessionStorage
	auth    ports.AuthAPI
	logger  *logger.Logger

	mu      sync.RWMutex
	session *entities.Session
}

var _ ports.TokenSource = (*SessionService)(nil)

// NewSessionService creates the session service and restores any stored session
func NewSessionService(ctx context.Context, storage ports.SessionStorage, auth ports.AuthAPI, log *logger.Logger) (*SessionService, error) {
	s := &SessionService{
		storage: storage,
		auth:    auth,
		logger:  log.WithComponent("session"),
	}
	if err := s.Restore(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// SetAuth sets the API used by Login and Register. The HTTP facades need the
// service as their token source, so the two are wired after construction.
func (s *SessionService) SetAuth(auth ports.AuthAPI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

// Restore reloads the session from storage. A stored session missing either
// half is discarded.
func (s *SessionService) Restore(ctx context.Context) error {
	stored, err := s.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	if stored != nil && !stored.Valid() {
		s.logger.Warn("Discarding incomplete stored session")
		if err := s.storage.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear incomplete session: %w", err)
		}
		stored = nil
	}

	s.mu.Lock()
	s.session = stored
	s.mu.Unlock()

	if stored != nil {
		s.logger.Debugw("Session restored", "user_id", stored.User.ID)
	}
	return nil
}

// Login authenticates against the API and establishes the session.
// On any failure the previous session, if one exists, is left in place.
func (s *SessionService) Login(ctx context.Context, email, password string) (*entities.User, error) {
	req := ports.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	resp, err := s.authAPI().Login(ctx, req)
	if err != nil {
		s.logger.WithError(err).Infow("Login rejected", "email", req.Email)
		return nil, err
	}

	if resp.Token == "" {
		s.logger.Warn("Login response carried no token")
		return nil, entities.ErrMissingToken
	}

	session := entities.Session{Token: resp.Token}
	if resp.User != nil {
		session.User = *resp.User
	}

	if err := s.storage.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()

	s.logger.LogUserAction(session.User.ID, "login", nil)

	user := session.User
	return &user, nil
}

// Register creates an account. It never signs the user in.
func (s *SessionService) Register(ctx context.Context, email, password, name string) error {
	req := ports.RegisterRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
		Name:     entities.StringPtr(strings.TrimSpace(name)),
	}
	if err := validateRequest(req); err != nil {
		return err
	}

	if err := s.authAPI().Register(ctx, req); err != nil {
		return err
	}

	s.logger.Infow("Account registered", "email", req.Email)
	return nil
}

// Logout forgets the session in storage and memory. Calling it while signed
// out is a no-op.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.storage.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.mu.Lock()
	prev := s.session
	s.session = nil
	s.mu.Unlock()

	if prev != nil {
		s.logger.LogUserAction(prev.User.ID, "logout", nil)
	}
	return nil
}

// Token returns the bearer token, or "" when signed out
func (s *SessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

// User returns a copy of the signed-in user, or nil
func (s *SessionService) User() *entities.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	u := s.session.User
	return &u
}

func (s *SessionService) IsAuthenticated() bool {
	return s.Token() != ""
}

// Snapshot returns the token and user read under one lock
func (s *SessionService) Snapshot() (entities.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return entities.Session{}, false
	}
	return *s.session, true
}

func (s *SessionService) authAPI() ports.AuthAPI {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth
}
