package entities

import (
	"errors"
)

// Common errors
var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrColumnNotFound   = errors.New("column not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrBoardNotFound    = errors.New("board not found")
	ErrInvalidID        = errors.New("invalid id")
	ErrEmptyResponse    = errors.New("server accepted the change but returned no record; reload to see it")
)

// Enums and types
type Privacy string

const (
	PrivacyPrivate Privacy = "private"
	PrivacyPublic  Privacy = "public"
)

// Task status values written by this client. The server accepts any string.
const (
	TaskStatusActive   = "active"
	TaskStatusDone     = "done"
	TaskStatusArchived = "archived"
)

// User represents an account as returned by the API
type User struct {
	ID    int64   `json:"id" db:"id"`
	Email string  `json:"email" db:"email"`
	Name  *string `json:"name,omitempty" db:"name"`
}

// DisplayName returns the user's name, falling back to the email address
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

// Board represents a kanban board owned by one user
type Board struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	OwnerID     int64   `json:"owner_id"`
	Privacy     Privacy `json:"privacy"`
}

// Column represents a column on a board. Position orders columns left to right.
type Column struct {
	ID       int64  `json:"id"`
	BoardID  int64  `json:"board_id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

// Task represents a card inside a column
type Task struct {
	ID          int64   `json:"id"`
	BoardID     int64   `json:"board_id"`
	ColumnID    int64   `json:"column_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Position    int     `json:"position"`
	CreatedBy   *int64  `json:"created_by"`
	Status      string  `json:"status"`
	Archived    int     `json:"archived"`
}

// Session is the bearer token and identity established at login.
// Both halves are always stored and cleared together.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Valid reports whether the session carries a token
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

// IsValid checks the privacy value
func (p Privacy) IsValid() bool {
	switch p {
	case PrivacyPrivate, PrivacyPublic:
		return true
	}
	return false
}

// OwnedBy reports whether the board belongs to the given user
func (b *Board) OwnedBy(userID int64) bool {
	return b.OwnerID == userID
}

// IsArchived reports the numeric archived flag
func (t *Task) IsArchived() bool {
	return t.Archived == 1
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 {
	return &v
}
