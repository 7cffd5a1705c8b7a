package services

import (
	"context"
	"strings"

	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/infrastructure/logger"
	"github.com/taskmaster/kanban/internal/ports"
)

// BoardService backs the boards list page
type BoardService struct {
	boards  ports.BoardsAPI
	session *SessionService
	logger  *logger.Logger
}

// NewBoardService creates a new board service
func NewBoardService(boards ports.BoardsAPI, session *SessionService, logger *logger.Logger) *BoardService {
	return &BoardService{
		boards:  boards,
		session: session,
		logger:  logger.WithComponent("boards"),
	}
}

// ListMine returns the boards owned by the signed-in user. Signed out, it
// returns an empty list without calling the API.
func (s *BoardService) ListMine(ctx context.Context) ([]entities.BoardView, error) {
	user := s.session.User()
	if user == nil {
		return []entities.BoardView{}, nil
	}

	boards, err := s.boards.List(ctx, ports.BoardFilter{OwnerID: user.ID})
	if err != nil {
		return nil, err
	}

	views := make([]entities.BoardView, 0, len(boards))
	for _, b := range boards {
		if !b.OwnedBy(user.ID) {
			continue
		}
		views = append(views, AdaptBoard(b))
	}
	return views, nil
}

// Create makes a private board owned by the signed-in user
func (s *BoardService) Create(ctx context.Context, title string) (*entities.BoardView, error) {
	user := s.session.User()
	if user == nil {
		return nil, entities.ErrNotAuthenticated
	}

	req := ports.CreateBoardRequest{
		Title:   strings.TrimSpace(title),
		OwnerID: user.ID,
		Privacy: entities.PrivacyPrivate,
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	board, err := s.boards.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if board == nil || board.ID == 0 {
		return nil, entities.ErrEmptyResponse
	}

	s.logger.LogUserAction(user.ID, "create_board", map[string]interface{}{"board_id": board.ID})

	view := AdaptBoard(*board)
	return &view, nil
}

// Rename changes a board's title
func (s *BoardService) Rename(ctx context.Context, id string, title string) (*entities.BoardView, error) {
	boardID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(title)
	req := ports.UpdateBoardRequest{Title: &trimmed}
	if trimmed == "" {
		return nil, entities.NewValidationError("title", "title is required")
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	board, err := s.boards.Update(ctx, boardID, req)
	if err != nil {
		return nil, err
	}
	if board == nil || board.ID == 0 {
		return &entities.BoardView{ID: id, Title: trimmed, Columns: []entities.ColumnView{}}, nil
	}

	view := AdaptBoard(*board)
	return &view, nil
}

// Delete removes a board. The server drops its columns and tasks with it.
func (s *BoardService) Delete(ctx context.Context, id string) error {
	boardID, err := ParseID(id)
	if err != nil {
		return err
	}

	if err := s.boards.Delete(ctx, boardID); err != nil {
		return err
	}

	if user := s.session.User(); user != nil {
		s.logger.LogUserAction(user.ID, "delete_board", map[string]interface{}{"board_id": boardID})
	}
	return nil
}
