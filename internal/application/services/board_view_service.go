package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/infrastructure/logger"
	"github.com/taskmaster/kanban/internal/ports"
)

// BoardViewService loads one board as a nested view and applies edits to it.
// Edits change the view only after the server accepted them.
type BoardViewService struct {
	boards  ports.BoardsAPI
	columns ports.ColumnsAPI
	tasks   ports.TasksAPI
	session *SessionService
	logger  *logger.Logger
}

// NewBoardViewService creates a new board view service
func NewBoardViewService(boards ports.BoardsAPI, columns ports.ColumnsAPI, tasks ports.TasksAPI, session *SessionService, logger *logger.Logger) *BoardViewService {
	return &BoardViewService{
		boards:  boards,
		columns: columns,
		tasks:   tasks,
		session: session,
		logger:  logger.WithComponent("board_view"),
	}
}

// Load fetches the board, its columns and its tasks concurrently and nests
// them. If any of the three requests fails, no view is returned.
func (s *BoardViewService) Load(ctx context.Context, id string) (*entities.BoardView, error) {
	boardID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	var (
		board   *entities.Board
		columns []entities.Column
		tasks   []entities.Task
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		board, err = s.boards.Get(gctx, boardID)
		return err
	})
	g.Go(func() error {
		var err error
		columns, err = s.columns.ListByBoard(gctx, boardID)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.tasks.ListByBoard(gctx, boardID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.WithError(err).Debugw("Board load failed", "board_id", boardID)
		return nil, err
	}

	view := AssembleBoard(*board, columns, tasks)
	return &view, nil
}

// AddTask creates a task at the top of a column and prepends it to the view
func (s *BoardViewService) AddTask(ctx context.Context, view *entities.BoardView, columnID, title string) (*entities.TaskView, error) {
	if view.Column(columnID) == nil {
		return nil, entities.ErrColumnNotFound
	}

	user := s.session.User()
	if user == nil {
		return nil, entities.ErrNotAuthenticated
	}

	boardID, err := ParseID(view.ID)
	if err != nil {
		return nil, err
	}
	colID, err := ParseID(columnID)
	if err != nil {
		return nil, err
	}

	req := ports.CreateTaskRequest{
		BoardID:   boardID,
		ColumnID:  colID,
		Title:     strings.TrimSpace(title),
		Position:  0,
		CreatedBy: entities.Int64Ptr(user.ID),
		Status:    entities.TaskStatusActive,
		Archived:  0,
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	created, err := s.tasks.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	// without an id the task could not be edited or removed later
	if created == nil || created.ID == 0 {
		s.logger.Warnw("Task created without a record in the response", "column_id", colID)
		return nil, entities.ErrEmptyResponse
	}

	task := AdaptTask(*created)
	// the column is taken from the request so the task lands where the user asked
	task.ColumnID = columnID
	view.PrependTask(task)

	s.logger.LogUserAction(user.ID, "create_task", map[string]interface{}{"task_id": created.ID, "column_id": colID})
	return &task, nil
}

// AddColumn appends a column at the right end of the board
func (s *BoardViewService) AddColumn(ctx context.Context, view *entities.BoardView, title string) (*entities.ColumnView, error) {
	boardID, err := ParseID(view.ID)
	if err != nil {
		return nil, err
	}

	req := ports.CreateColumnRequest{
		BoardID:  boardID,
		Title:    strings.TrimSpace(title),
		Position: len(view.Columns),
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	created, err := s.columns.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if created == nil || created.ID == 0 {
		s.logger.Warnw("Column created without a record in the response", "board_id", boardID)
		return nil, entities.ErrEmptyResponse
	}

	col := AdaptColumn(*created)
	view.AppendColumn(col)
	return &col, nil
}

// RenameColumn changes a column's title. view may be nil.
func (s *BoardViewService) RenameColumn(ctx context.Context, view *entities.BoardView, columnID, title string) error {
	id, err := ParseID(columnID)
	if err != nil {
		return err
	}

	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return entities.NewValidationError("title", "title is required")
	}

	updated, err := s.columns.Update(ctx, id, ports.UpdateColumnRequest{Title: &trimmed})
	if err != nil {
		return err
	}

	if view != nil {
		if col := view.Column(columnID); col != nil {
			col.Title = trimmed
			if updated != nil && updated.ID != 0 {
				col.Title = updated.Title
			}
		}
	}
	return nil
}

// RemoveColumn deletes a column and, on success, drops it from the view. view may be nil.
func (s *BoardViewService) RemoveColumn(ctx context.Context, view *entities.BoardView, columnID string) error {
	id, err := ParseID(columnID)
	if err != nil {
		return err
	}

	if err := s.columns.Delete(ctx, id); err != nil {
		return err
	}

	if view != nil {
		view.RemoveColumn(columnID)
	}
	return nil
}

// RemoveTask deletes a task and, on success, drops it from the view. view may be nil.
func (s *BoardViewService) RemoveTask(ctx context.Context, view *entities.BoardView, taskID string) error {
	id, err := ParseID(taskID)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	if view != nil {
		view.RemoveTask(taskID)
	}
	return nil
}

// UpdateTask applies a partial update. When the task moved to another column
// it is taken out of its old column and prepended to the new one. view may be nil.
func (s *BoardViewService) UpdateTask(ctx context.Context, view *entities.BoardView, taskID string, req ports.UpdateTaskRequest) (*entities.TaskView, error) {
	id, err := ParseID(taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if view != nil && req.ColumnID != nil && view.Column(formatID(*req.ColumnID)) == nil {
		return nil, fmt.Errorf("move task %s: %w", taskID, entities.ErrColumnNotFound)
	}

	updated, err := s.tasks.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	var col *entities.ColumnView
	idx := -1
	if view != nil {
		col, idx = view.FindTask(taskID)
	}

	// a success without a body leaves the view to be patched from the request
	var task entities.TaskView
	switch {
	case updated != nil && updated.ID != 0:
		task = AdaptTask(*updated)
	case col != nil:
		task = MergeTaskUpdate(col.Tasks[idx], req)
	default:
		task = MergeTaskUpdate(entities.TaskView{ID: taskID, Status: entities.TaskStatusActive}, req)
	}
	if view == nil {
		return &task, nil
	}

	switch {
	case col == nil:
		view.PrependTask(task)
	case col.ID == task.ColumnID:
		col.Tasks[idx] = task
	default:
		view.RemoveTask(taskID)
		view.PrependTask(task)
	}
	return &task, nil
}
