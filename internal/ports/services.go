package ports

import (
	"context"

	"github.com/taskmaster/kanban/internal/domain/entities"
)

// AuthAPI interface for the unauthenticated account endpoints
type AuthAPI interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) error
}

// BoardsAPI interface for board operations
type BoardsAPI interface {
	List(ctx context.Context, filter BoardFilter) ([]entities.Board, error)
	Get(ctx context.Context, id int64) (*entities.Board, error)
	Create(ctx context.Context, req CreateBoardRequest) (*entities.Board, error)
	Update(ctx context.Context, id int64, req UpdateBoardRequest) (*entities.Board, error)
	Delete(ctx context.Context, id int64) error
}

// ColumnsAPI interface for column operations
type ColumnsAPI interface {
	ListByBoard(ctx context.Context, boardID int64) ([]entities.Column, error)
	Create(ctx context.Context, req CreateColumnRequest) (*entities.Column, error)
	Update(ctx context.Context, id int64, req UpdateColumnRequest) (*entities.Column, error)
	Delete(ctx context.Context, id int64) error
}

// TasksAPI interface for task operations
type TasksAPI interface {
	ListByBoard(ctx context.Context, boardID int64) ([]entities.Task, error)
	ListByColumn(ctx context.Context, columnID int64) ([]entities.Task, error)
	Create(ctx context.Context, req CreateTaskRequest) (*entities.Task, error)
	Update(ctx context.Context, id int64, req UpdateTaskRequest) (*entities.Task, error)
	Delete(ctx context.Context, id int64) error
}

// Request/Response Types

// Auth related types
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string         `json:"token"`
	User  *entities.User `json:"user"`
}

type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=100"`
}

// Board related types
type CreateBoardRequest struct {
	Title       string           `json:"title" validate:"required,max=200"`
	Description *string          `json:"description"`
	OwnerID     int64            `json:"owner_id" validate:"required"`
	Privacy     entities.Privacy `json:"privacy" validate:"required,oneof=private public"`
}

type UpdateBoardRequest struct {
	Title       *string           `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string           `json:"description,omitempty"`
	Privacy     *entities.Privacy `json:"privacy,omitempty" validate:"omitempty,oneof=private public"`
}

// Column related types
type CreateColumnRequest struct {
	BoardID  int64  `json:"board_id" validate:"required"`
	Title    string `json:"title" validate:"required,max=200"`
	Position int    `json:"position" validate:"min=0"`
}

type UpdateColumnRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Position *int    `json:"position,omitempty" validate:"omitempty,min=0"`
}

// Task related types
type CreateTaskRequest struct {
	BoardID     int64   `json:"board_id" validate:"required"`
	ColumnID    int64   `json:"column_id" validate:"required"`
	Title       string  `json:"title" validate:"required,max=500"`
	Description *string `json:"description"`
	Position    int     `json:"position" validate:"min=0"`
	CreatedBy   *int64  `json:"created_by"`
	Status      string  `json:"status" validate:"required"`
	Archived    int     `json:"archived" validate:"oneof=0 1"`
}

type UpdateTaskRequest struct {
	ColumnID    *int64  `json:"column_id,omitempty"`
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Description *string `json:"description,omitempty"`
	Position    *int    `json:"position,omitempty" validate:"omitempty,min=0"`
	Status      *string `json:"status,omitempty"`
	Archived    *int    `json:"archived,omitempty" validate:"omitempty,oneof=0 1"`
}

// ErrorResponse is the body shape the server uses for failures
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
