package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/taskmaster/kanban/internal/adapters/http"
	"github.com/taskmaster/kanban/internal/adapters/repository"
	"github.com/taskmaster/kanban/internal/application/services"
	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/infrastructure/config"
	"github.com/taskmaster/kanban/internal/infrastructure/logger"
	"github.com/taskmaster/kanban/internal/ports"
)

func testConfig() *config.Config {
	return &config.Config{
		Sandbox: config.SandboxConfig{
			Port:               5000,
			Host:               "127.0.0.1",
			JWTSecret:          "test-secret",
			TokenTTL:           time.Hour,
			CORSAllowedOrigins: "*",
		},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

type harness struct {
	url      string
	api      *apihttp.API
	session  *services.SessionService
	boards   *services.BoardService
	boardVSv *services.BoardViewService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	srv, err := New(testConfig(), logger.Nop())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	session, err := services.NewSessionService(context.Background(), repository.NewMemorySessionRepository(), nil, logger.Nop())
	require.NoError(t, err)

	api := apihttp.NewAPI(apihttp.NewClient(ts.URL), session)
	session.SetAuth(api.Auth)

	return &harness{
		url:      ts.URL,
		api:      api,
		session:  session,
		boards:   services.NewBoardService(api.Boards, session, logger.Nop()),
		boardVSv: services.NewBoardViewService(api.Boards, api.Columns, api.Tasks, session, logger.Nop()),
	}
}

func (h *harness) signUp(t *testing.T, email string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, h.session.Register(ctx, email, "secret1", ""))
	_, err := h.session.Login(ctx, email, "secret1")
	require.NoError(t, err)
}

func TestSandbox_RegisterAndLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.session.Register(ctx, "ann@example.com", "secret1", "Ann"))
	assert.False(t, h.session.IsAuthenticated())

	_, err := h.session.Login(ctx, "ann@example.com", "wrong-password")
	var apiErr *entities.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)

	user, err := h.session.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.DisplayName())
	assert.NotEmpty(t, h.session.Token())

	err = h.session.Register(ctx, "ann@example.com", "secret1", "")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestSandbox_RequiresToken(t *testing.T) {
	h := newHarness(t)

	_, err := h.api.Boards.List(context.Background(), ports.BoardFilter{})
	var apiErr *entities.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Unauthorized())
	assert.Equal(t, "Missing authorization header", apiErr.Message)
}

func TestSandbox_BoardLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.signUp(t, "ann@example.com")

	board, err := h.boards.Create(ctx, "Roadmap")
	require.NoError(t, err)

	view, err := h.boardVSv.Load(ctx, board.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Columns)

	todo, err := h.boardVSv.AddColumn(ctx, view, "Todo")
	require.NoError(t, err)
	done, err := h.boardVSv.AddColumn(ctx, view, "Done")
	require.NoError(t, err)
	assert.Equal(t, 0, todo.Position)
	assert.Equal(t, 1, done.Position)

	_, err = h.boardVSv.AddTask(ctx, view, todo.ID, "first")
	require.NoError(t, err)
	second, err := h.boardVSv.AddTask(ctx, view, todo.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, "second", view.Columns[0].Tasks[0].Title)

	// a fresh load agrees with the optimistic view
	reloaded, err := h.boardVSv.Load(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Columns, 2)
	require.Len(t, reloaded.Columns[0].Tasks, 2)
	assert.Equal(t, "second", reloaded.Columns[0].Tasks[0].Title)
	assert.Equal(t, "first", reloaded.Columns[0].Tasks[1].Title)

	target, err := services.ParseID(done.ID)
	require.NoError(t, err)
	_, err = h.boardVSv.UpdateTask(ctx, view, second.ID, ports.UpdateTaskRequest{ColumnID: &target})
	require.NoError(t, err)
	assert.Len(t, view.Columns[0].Tasks, 1)
	assert.Len(t, view.Columns[1].Tasks, 1)

	require.NoError(t, h.boardVSv.RemoveTask(ctx, view, second.ID))
	err = h.boardVSv.RemoveTask(ctx, view, second.ID)
	assert.True(t, entities.IsNotFound(err))
	assert.Equal(t, 1, view.TaskCount())

	mine, err := h.boards.ListMine(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, h.boards.Delete(ctx, board.ID))

	cols, err := h.api.Columns.ListByBoard(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cols)
	tasks, err := h.api.Tasks.ListByBoard(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSandbox_OwnerFilter(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.signUp(t, "ann@example.com")
	_, err := h.boards.Create(ctx, "Ann's board")
	require.NoError(t, err)
	require.NoError(t, h.session.Logout(ctx))

	h.signUp(t, "bob@example.com")
	_, err = h.boards.Create(ctx, "Bob's board")
	require.NoError(t, err)

	mine, err := h.boards.ListMine(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Bob's board", mine[0].Title)

	all, err := h.api.Boards.List(ctx, ports.BoardFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// only the owner may delete
	err = h.api.Boards.Delete(ctx, 1)
	var apiErr *entities.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestSandbox_ValidationError(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "ann@example.com")

	_, err := h.api.Columns.Create(context.Background(), ports.CreateColumnRequest{Title: "orphan"})
	var apiErr *entities.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "board_id")
}

func TestSandbox_HealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	resp, err := http.Get(h.url + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(h.url + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "http_requests_total"))
}
