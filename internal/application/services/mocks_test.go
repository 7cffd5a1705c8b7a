package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/ports"
)

// MockAuthAPI is a mock implementation of ports.AuthAPI
type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Login(ctx context.Context, req ports.LoginRequest) (*ports.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.LoginResponse), args.Error(1)
}

func (m *MockAuthAPI) Register(ctx context.Context, req ports.RegisterRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockBoardsAPI is a mock implementation of ports.BoardsAPI
type MockBoardsAPI struct {
	mock.Mock
}

func (m *MockBoardsAPI) List(ctx context.Context, filter ports.BoardFilter) ([]entities.Board, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Board), args.Error(1)
}

func (m *MockBoardsAPI) Get(ctx context.Context, id int64) (*entities.Board, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Board), args.Error(1)
}

func (m *MockBoardsAPI) Create(ctx context.Context, req ports.CreateBoardRequest) (*entities.Board, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Board), args.Error(1)
}

func (m *MockBoardsAPI) Update(ctx context.Context, id int64, req ports.UpdateBoardRequest) (*entities.Board, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Board), args.Error(1)
}

func (m *MockBoardsAPI) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockColumnsAPI is a mock implementation of ports.ColumnsAPI
type MockColumnsAPI struct {
	mock.Mock
}

func (m *MockColumnsAPI) ListByBoard(ctx context.Context, boardID int64) ([]entities.Column, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Column), args.Error(1)
}

func (m *MockColumnsAPI) Create(ctx context.Context, req ports.CreateColumnRequest) (*entities.Column, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Column), args.Error(1)
}

func (m *MockColumnsAPI) Update(ctx context.Context, id int64, req ports.UpdateColumnRequest) (*entities.Column, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Column), args.Error(1)
}

func (m *MockColumnsAPI) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTasksAPI is a mock implementation of ports.TasksAPI
type MockTasksAPI struct {
	mock.Mock
}

func (m *MockTasksAPI) ListByBoard(ctx context.Context, boardID int64) ([]entities.Task, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Task), args.Error(1)
}

func (m *MockTasksAPI) ListByColumn(ctx context.Context, columnID int64) ([]entities.Task, error) {
	args := m.Called(ctx, columnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Task), args.Error(1)
}

func (m *MockTasksAPI) Create(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Task), args.Error(1)
}

func (m *MockTasksAPI) Update(ctx context.Context, id int64, req ports.UpdateTaskRequest) (*entities.Task, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Task), args.Error(1)
}

func (m *MockTasksAPI) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
