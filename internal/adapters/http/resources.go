package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/ports"
)

// API groups the typed resource facades. Every authenticated call reads the
// token from the session at the moment it is issued.
type API struct {
	Auth    *AuthClient
	Boards  *BoardsClient
	Columns *ColumnsClient
	Tasks   *TasksClient
}

// NewAPI builds all facades on one client and token source
func NewAPI(client *Client, tokens ports.TokenSource) *API {
	base := resource{client: client, tokens: tokens}
	return &API{
		Auth:    &AuthClient{client: client},
		Boards:  &BoardsClient{base},
		Columns: &ColumnsClient{base},
		Tasks:   &TasksClient{base},
	}
}

type resource struct {
	client *Client
	tokens ports.TokenSource
}

// withToken performs an authenticated call
func (r resource) withToken(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	token := ""
	if r.tokens != nil {
		token = r.tokens.Token()
	}
	return r.client.Do(ctx, Request{Method: method, Path: path, Query: query, Body: body, Token: token}, out)
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

// AuthClient covers the unauthenticated account endpoints
type AuthClient struct {
	client *Client
}

var _ ports.AuthAPI = (*AuthClient)(nil)

// Login exchanges credentials for a token and user
func (a *AuthClient) Login(ctx context.Context, req ports.LoginRequest) (*ports.LoginResponse, error) {
	var resp ports.LoginResponse
	if err := a.client.Do(ctx, Request{Method: http.MethodPost, Path: "/api/login", Body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. Whatever the server returns is discarded.
func (a *AuthClient) Register(ctx context.Context, req ports.RegisterRequest) error {
	return a.client.Do(ctx, Request{Method: http.MethodPost, Path: "/api/users", Body: req}, nil)
}

// BoardsClient maps board operations to /api/boards
type BoardsClient struct {
	resource
}

var _ ports.BoardsAPI = (*BoardsClient)(nil)

func (b *BoardsClient) List(ctx context.Context, filter ports.BoardFilter) ([]entities.Board, error) {
	var query url.Values
	if filter.OwnerID != 0 {
		query = url.Values{"owner_id": {strconv.FormatInt(filter.OwnerID, 10)}}
	}

	var boards []entities.Board
	if err := b.withToken(ctx, http.MethodGet, "/api/boards", query, nil, &boards); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boards, nil
}

func (b *BoardsClient) Get(ctx context.Context, id int64) (*entities.Board, error) {
	var board entities.Board
	if err := b.withToken(ctx, http.MethodGet, idPath("/api/boards", id), nil, nil, &board); err != nil {
		return nil, fmt.Errorf("get board %d: %w", id, err)
	}
	return &board, nil
}

func (b *BoardsClient) Create(ctx context.Context, req ports.CreateBoardRequest) (*entities.Board, error) {
	var board entities.Board
	if err := b.withToken(ctx, http.MethodPost, "/api/boards", nil, req, &board); err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}
	return &board, nil
}

func (b *BoardsClient) Update(ctx context.Context, id int64, req ports.UpdateBoardRequest) (*entities.Board, error) {
	var board entities.Board
	if err := b.withToken(ctx, http.MethodPut, idPath("/api/boards", id), nil, req, &board); err != nil {
		return nil, fmt.Errorf("update board %d: %w", id, err)
	}
	return &board, nil
}

func (b *BoardsClient) Delete(ctx context.Context, id int64) error {
	if err := b.withToken(ctx, http.MethodDelete, idPath("/api/boards", id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete board %d: %w", id, err)
	}
	return nil
}

// ColumnsClient maps column operations to /api/columns
type ColumnsClient struct {
	resource
}

var _ ports.ColumnsAPI = (*ColumnsClient)(nil)

// ListByBoard asks the server to filter by board_id and filters the response
// again, since older servers ignore the parameter and return every column.
func (c *ColumnsClient) ListByBoard(ctx context.Context, boardID int64) ([]entities.Column, error) {
	query := url.Values{"board_id": {strconv.FormatInt(boardID, 10)}}

	var all []entities.Column
	if err := c.withToken(ctx, http.MethodGet, "/api/columns", query, nil, &all); err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}

	columns := make([]entities.Column, 0, len(all))
	for _, col := range all {
		if col.BoardID == boardID {
			columns = append(columns, col)
		}
	}
	return columns, nil
}

func (c *ColumnsClient) Create(ctx context.Context, req ports.CreateColumnRequest) (*entities.Column, error) {
	var col entities.Column
	if err := c.withToken(ctx, http.MethodPost, "/api/columns", nil, req, &col); err != nil {
		return nil, fmt.Errorf("create column: %w", err)
	}
	return &col, nil
}

func (c *ColumnsClient) Update(ctx context.Context, id int64, req ports.UpdateColumnRequest) (*entities.Column, error) {
	var col entities.Column
	if err := c.withToken(ctx, http.MethodPut, idPath("/api/columns", id), nil, req, &col); err != nil {
		return nil, fmt.Errorf("update column %d: %w", id, err)
	}
	return &col, nil
}

func (c *ColumnsClient) Delete(ctx context.Context, id int64) error {
	if err := c.withToken(ctx, http.MethodDelete, idPath("/api/columns", id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete column %d: %w", id, err)
	}
	return nil
}

// TasksClient maps task operations to /api/tasks
type TasksClient struct {
	resource
}

var _ ports.TasksAPI = (*TasksClient)(nil)

func (t *TasksClient) list(ctx context.Context, filter ports.TaskFilter) ([]entities.Task, error) {
	query := url.Values{}
	if filter.BoardID != 0 {
		query.Set("board_id", strconv.FormatInt(filter.BoardID, 10))
	}
	if filter.ColumnID != 0 {
		query.Set("column_id", strconv.FormatInt(filter.ColumnID, 10))
	}

	var all []entities.Task
	if err := t.withToken(ctx, http.MethodGet, "/api/tasks", query, nil, &all); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]entities.Task, 0, len(all))
	for _, task := range all {
		if filter.BoardID != 0 && task.BoardID != filter.BoardID {
			continue
		}
		if filter.ColumnID != 0 && task.ColumnID != filter.ColumnID {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// ListByBoard returns the tasks whose board_id matches
func (t *TasksClient) ListByBoard(ctx context.Context, boardID int64) ([]entities.Task, error) {
	return t.list(ctx, ports.TaskFilter{BoardID: boardID})
}

// ListByColumn returns the tasks whose column_id matches
func (t *TasksClient) ListByColumn(ctx context.Context, columnID int64) ([]entities.Task, error) {
	return t.list(ctx, ports.TaskFilter{ColumnID: columnID})
}

func (t *TasksClient) Create(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	var task entities.Task
	if err := t.withToken(ctx, http.MethodPost, "/api/tasks", nil, req, &task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}

func (t *TasksClient) Update(ctx context.Context, id int64, req ports.UpdateTaskRequest) (*entities.Task, error) {
	var task entities.Task
	if err := t.withToken(ctx, http.MethodPut, idPath("/api/tasks", id), nil, req, &task); err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return &task, nil
}

func (t *TasksClient) Delete(ctx context.Context, id int64) error {
	if err := t.withToken(ctx, http.MethodDelete, idPath("/api/tasks", id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}
