package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apihttp "github.com/taskmaster/kanban/internal/adapters/http"
	"github.com/taskmaster/kanban/internal/adapters/repository"
	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/infrastructure/logger"
	"github.com/taskmaster/kanban/internal/ports"
)

func newSession(t *testing.T, storage ports.SessionStorage, auth ports.AuthAPI) *SessionService {
	t.Helper()
	s, err := NewSessionService(context.Background(), storage, auth, logger.Nop())
	require.NoError(t, err)
	return s
}

func TestSessionService_LoginStoresTokenAndUser(t *testing.T) {
	ctx := context.Background()
	storage := repository.NewMemorySessionRepository()
	auth := new(MockAuthAPI)
	user := &entities.User{ID: 7, Email: "a@b.com"}
	auth.On("Login", mock.Anything, ports.LoginRequest{Email: "a@b.com", Password: "pw"}).
		Return(&ports.LoginResponse{Token: "T1", User: user}, nil)

	s := newSession(t, storage, auth)
	got, err := s.Login(ctx, " a@b.com ", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "T1", s.Token())
	assert.Equal(t, "a@b.com", s.User().Email)

	stored, err := storage.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "T1", stored.Token)
	assert.Equal(t, int64(7), stored.User.ID)

	auth.AssertExpectations(t)
}

func TestSessionService_LoginMissingToken(t *testing.T) {
	ctx := context.Background()
	storage := repository.NewMemorySessionRepository()
	require.NoError(t, storage.Save(ctx, entities.Session{Token: "OLD", User: entities.User{ID: 1, Email: "old@b.com"}}))

	auth := new(MockAuthAPI)
	auth.On("Login", mock.Anything, mock.Anything).
		Return(&ports.LoginResponse{User: &entities.User{ID: 7}}, nil)

	s := newSession(t, storage, auth)
	_, err := s.Login(ctx, "a@b.com", "pw")
	require.Error(t, err)

	var authErr *entities.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "missing token", err.Error())

	// prior session untouched
	assert.Equal(t, "OLD", s.Token())
	stored, _ := storage.Load(ctx)
	assert.Equal(t, "OLD", stored.Token)
}

func TestSessionService_LoginPersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	storage := repository.NewMemorySessionRepository()
	auth := new(MockAuthAPI)
	auth.On("Login", mock.Anything, mock.Anything).
		Return(&ports.LoginResponse{Token: "T1", User: &entities.User{ID: 7}}, nil)

	s := newSession(t, storage, auth)
	storage.SaveErr = errors.New("disk full")

	_, err := s.Login(ctx, "a@b.com", "pw")
	require.Error(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
}

func TestSessionService_LoginValidation(t *testing.T) {
	auth := new(MockAuthAPI)
	s := newSession(t, repository.NewMemorySessionRepository(), auth)

	tests := []struct {
		name     string
		email    string
		password string
		field    string
	}{
		{name: "empty email", email: "", password: "pw", field: "email"},
		{name: "bad email", email: "nope", password: "pw", field: "email"},
		{name: "empty password", email: "a@b.com", password: "", field: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Login(context.Background(), tt.email, tt.password)
			var valErr *entities.ValidationError
			require.True(t, errors.As(err, &valErr))
			require.NotEmpty(t, valErr.Fields)
			assert.Equal(t, tt.field, valErr.Fields[0].Field)
		})
	}

	auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestSessionService_LoginServerRejection(t *testing.T) {
	auth := new(MockAuthAPI)
	auth.On("Login", mock.Anything, mock.Anything).
		Return(nil, &entities.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"})

	s := newSession(t, repository.NewMemorySessionRepository(), auth)
	_, err := s.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", entities.Message(err, "Login failed"))
	assert.False(t, s.IsAuthenticated())
}

func TestSessionService_RegisterOmitsEmptyName(t *testing.T) {
	auth := new(MockAuthAPI)
	auth.On("Register", mock.Anything, ports.RegisterRequest{Email: "x@y.com", Password: "secret1"}).Return(nil)

	s := newSession(t, repository.NewMemorySessionRepository(), auth)
	require.NoError(t, s.Register(context.Background(), "x@y.com", "secret1", "  "))

	assert.False(t, s.IsAuthenticated())
	auth.AssertExpectations(t)
}

func TestSessionService_RegisterWithName(t *testing.T) {
	auth := new(MockAuthAPI)
	auth.On("Register", mock.Anything, mock.MatchedBy(func(req ports.RegisterRequest) bool {
		return req.Name != nil && *req.Name == "Xena"
	})).Return(nil)

	s := newSession(t, repository.NewMemorySessionRepository(), auth)
	require.NoError(t, s.Register(context.Background(), "x@y.com", "secret1", "Xena"))
	auth.AssertExpectations(t)
}

func TestSessionService_RegisterShortPassword(t *testing.T) {
	auth := new(MockAuthAPI)
	s := newSession(t, repository.NewMemorySessionRepository(), auth)

	err := s.Register(context.Background(), "x@y.com", "123", "")
	var valErr *entities.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "password must be at least 6 characters", err.Error())
	auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestSessionService_LogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	storage := repository.NewMemorySessionRepository()
	require.NoError(t, storage.Save(ctx, entities.Session{Token: "T1", User: entities.User{ID: 7}}))

	s := newSession(t, storage, new(MockAuthAPI))
	require.True(t, s.IsAuthenticated())

	require.NoError(t, s.Logout(ctx))
	require.NoError(t, s.Logout(ctx))

	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, "", s.Token())
	assert.Nil(t, s.User())

	stored, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSessionService_RestoreDiscardsIncompleteSession(t *testing.T) {
	ctx := context.Background()
	storage := repository.NewMemorySessionRepository()
	require.NoError(t, storage.Save(ctx, entities.Session{User: entities.User{ID: 7}}))

	s := newSession(t, storage, new(MockAuthAPI))
	assert.False(t, s.IsAuthenticated())

	stored, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSessionService_SnapshotConsistent(t *testing.T) {
	ctx := context.Background()
	storage := repository.NewMemorySessionRepository()
	s := newSession(t, storage, new(MockAuthAPI))

	_, ok := s.Snapshot()
	assert.False(t, ok)

	require.NoError(t, storage.Save(ctx, entities.Session{Token: "T9", User: entities.User{ID: 9}}))
	require.NoError(t, s.Restore(ctx))

	snap, ok := s.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "T9", snap.Token)
	assert.Equal(t, int64(9), snap.User.ID)
}

// After login with token T1, the next authenticated request carries it.
func TestSessionService_TokenFlowsIntoRequests(t *testing.T) {
	var authHeaders []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			_, _ = w.Write([]byte(`{"token":"T1","user":{"id":7,"email":"a@b.com"}}`))
		default:
			authHeaders = append(authHeaders, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	session := newSession(t, repository.NewMemorySessionRepository(), nil)
	api := apihttp.NewAPI(apihttp.NewClient(srv.URL), session)
	session.SetAuth(api.Auth)

	_, err := api.Boards.List(ctx, ports.BoardFilter{})
	require.NoError(t, err)

	_, err = session.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)

	_, err = api.Boards.List(ctx, ports.BoardFilter{})
	require.NoError(t, err)

	require.NoError(t, session.Logout(ctx))
	_, err = api.Boards.List(ctx, ports.BoardFilter{})
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer T1", ""}, authHeaders)
}
