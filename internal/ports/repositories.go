package ports

import (
	"context"

	"github.com/taskmaster/kanban/internal/domain/entities"
)

// Storage keys for the persisted session pair
const (
	KeyAuthToken = "auth_token"
	KeyAuthUser  = "auth_user"
)

// SessionStorage defines durable client-side storage for the session pair.
// Save and Clear touch both entries atomically.
type SessionStorage interface {
	// Load returns the stored session, or nil when either entry is absent.
	Load(ctx context.Context) (*entities.Session, error)
	Save(ctx context.Context, session entities.Session) error
	Clear(ctx context.Context) error
}

// TokenSource supplies the bearer token read at the start of each authenticated request
type TokenSource interface {
	Token() string
}

// Filter types for list queries. Zero values mean "no filter".
type BoardFilter struct {
	OwnerID int64
}

type ColumnFilter struct {
	BoardID int64
}

type TaskFilter struct {
	BoardID  int64
	ColumnID int64
}
