package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/ports"
)

func parseIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

func queryID(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	return c.Validate(req)
}

// Auth

func (s *Server) register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password").SetInternal(err)
	}

	user, err := s.store.CreateUser(strings.TrimSpace(req.Email), req.Name, hash)
	if errors.Is(err, errEmailTaken) {
		return echo.NewHTTPError(http.StatusConflict, "Email already registered")
	}
	if err != nil {
		return err
	}

	s.logger.Infow("User registered", "user_id", user.ID, "email", user.Email)
	return c.JSON(http.StatusCreated, user)
}

func (s *Server) login(c echo.Context) error {
	var req ports.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := s.store.UserByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		s.logger.LogSecurityEvent("login_unknown_email", 0, c.RealIP(), nil)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
		s.logger.LogSecurityEvent("login_bad_password", user.ID, c.RealIP(), nil)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := s.issueToken(user.ID, user.Email)
	if err != nil {
		return err
	}

	u := user.User
	return c.JSON(http.StatusOK, ports.LoginResponse{Token: token, User: &u})
}

// Boards

func (s *Server) listBoards(c echo.Context) error {
	ownerID, err := queryID(c, "owner_id")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.store.ListBoards(ownerID))
}

func (s *Server) getBoard(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	board, ok := s.store.Board(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Board not found")
	}
	return c.JSON(http.StatusOK, board)
}

func (s *Server) createBoard(c echo.Context) error {
	var req ports.CreateBoardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.OwnerID == 0 {
		req.OwnerID = getUserIDFromContext(c)
	}
	if req.Privacy == "" {
		req.Privacy = entities.PrivacyPrivate
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	board := s.store.CreateBoard(entities.Board{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     req.OwnerID,
		Privacy:     req.Privacy,
	})
	return c.JSON(http.StatusCreated, board)
}

func (s *Server) updateBoard(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req ports.UpdateBoardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := s.requireBoardOwner(c, id); err != nil {
		return err
	}

	board, ok := s.store.UpdateBoard(id, func(b *entities.Board) {
		if req.Title != nil {
			b.Title = *req.Title
		}
		if req.Description != nil {
			b.Description = req.Description
		}
		if req.Privacy != nil {
			b.Privacy = *req.Privacy
		}
	})
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Board not found")
	}
	return c.JSON(http.StatusOK, board)
}

func (s *Server) deleteBoard(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := s.requireBoardOwner(c, id); err != nil {
		return err
	}
	if !s.store.DeleteBoard(id) {
		return echo.NewHTTPError(http.StatusNotFound, "Board not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) requireBoardOwner(c echo.Context, boardID int64) error {
	board, ok := s.store.Board(boardID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Board not found")
	}
	userID := getUserIDFromContext(c)
	if !board.OwnedBy(userID) {
		s.logger.LogSecurityEvent("board_not_owned", userID, c.RealIP(), map[string]interface{}{
			"board_id": boardID,
		})
		return echo.NewHTTPError(http.StatusForbidden, "Not the board owner")
	}
	return nil
}

// Columns

func (s *Server) listColumns(c echo.Context) error {
	boardID, err := queryID(c, "board_id")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.store.ListColumns(boardID))
}

func (s *Server) createColumn(c echo.Context) error {
	var req ports.CreateColumnRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	col, err := s.store.CreateColumn(entities.Column{
		BoardID:  req.BoardID,
		Title:    req.Title,
		Position: req.Position,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Board not found")
	}
	return c.JSON(http.StatusCreated, col)
}

func (s *Server) updateColumn(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req ports.UpdateColumnRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	col, ok := s.store.UpdateColumn(id, func(col *entities.Column) {
		if req.Title != nil {
			col.Title = *req.Title
		}
		if req.Position != nil {
			col.Position = *req.Position
		}
	})
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Column not found")
	}
	return c.JSON(http.StatusOK, col)
}

func (s *Server) deleteColumn(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if !s.store.DeleteColumn(id) {
		return echo.NewHTTPError(http.StatusNotFound, "Column not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// Tasks

func (s *Server) listTasks(c echo.Context) error {
	boardID, err := queryID(c, "board_id")
	if err != nil {
		return err
	}
	columnID, err := queryID(c, "column_id")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.store.ListTasks(boardID, columnID))
}

func (s *Server) createTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Status == "" {
		req.Status = entities.TaskStatusActive
	}
	if req.CreatedBy == nil {
		req.CreatedBy = entities.Int64Ptr(getUserIDFromContext(c))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	col, ok := s.store.Column(req.ColumnID)
	if !ok || col.BoardID != req.BoardID {
		return echo.NewHTTPError(http.StatusNotFound, "Column not found")
	}

	task, err := s.store.CreateTask(entities.Task{
		BoardID:     req.BoardID,
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
		CreatedBy:   req.CreatedBy,
		Status:      req.Status,
		Archived:    req.Archived,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Column not found")
	}
	return c.JSON(http.StatusCreated, task)
}

func (s *Server) updateTask(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req ports.UpdateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := s.store.UpdateTask(id, func(t *entities.Task) error {
		if req.ColumnID != nil {
			t.ColumnID = *req.ColumnID
		}
		if req.Title != nil {
			t.Title = *req.Title
		}
		if req.Description != nil {
			t.Description = req.Description
		}
		if req.Position != nil {
			t.Position = *req.Position
		}
		if req.Status != nil {
			t.Status = *req.Status
		}
		if req.Archived != nil {
			t.Archived = *req.Archived
		}
		return nil
	})
	switch {
	case errors.Is(err, entities.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	case errors.Is(err, entities.ErrColumnNotFound):
		return echo.NewHTTPError(http.StatusBadRequest, "Column not on this board")
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if !s.store.DeleteTask(id) {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}
	return c.NoContent(http.StatusNoContent)
}
