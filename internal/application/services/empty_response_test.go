package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/taskmaster/kanban/internal/adapters/http"
	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/infrastructure/logger"
	"github.com/taskmaster/kanban/internal/ports"
)

// emptyOKServices wires the services to a server that accepts every request
// with 200 and no body
func emptyOKServices(t *testing.T) (*BoardViewService, *BoardService) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)

	session := signedInSession(t, 7)
	api := apihttp.NewAPI(apihttp.NewClient(ts.URL), session)
	return NewBoardViewService(api.Boards, api.Columns, api.Tasks, session, logger.Nop()),
		NewBoardService(api.Boards, session, logger.Nop())
}

func TestBoardViewService_UpdateTaskEmptyResponseMergesRequest(t *testing.T) {
	svc, _ := emptyOKServices(t)
	view := sampleView()

	task, err := svc.UpdateTask(context.Background(), view, "1", ports.UpdateTaskRequest{Title: entities.StringPtr(" renamed ")})
	require.NoError(t, err)
	assert.Equal(t, "1", task.ID)
	assert.Equal(t, "renamed", task.Title)
	assert.Equal(t, "10", task.ColumnID)

	require.Len(t, view.Columns[0].Tasks, 1)
	assert.Equal(t, "renamed", view.Columns[0].Tasks[0].Title)
	assert.Equal(t, "active", view.Columns[0].Tasks[0].Status)
}

func TestBoardViewService_UpdateTaskEmptyResponseMoves(t *testing.T) {
	svc, _ := emptyOKServices(t)
	view := sampleView()

	archived := 1
	_, err := svc.UpdateTask(context.Background(), view, "1", ports.UpdateTaskRequest{
		ColumnID: entities.Int64Ptr(11),
		Archived: &archived,
	})
	require.NoError(t, err)

	assert.Empty(t, view.Columns[0].Tasks)
	require.Len(t, view.Columns[1].Tasks, 1)
	moved := view.Columns[1].Tasks[0]
	assert.Equal(t, "1", moved.ID)
	assert.Equal(t, "11", moved.ColumnID)
	assert.Equal(t, "existing", moved.Title)
	assert.Equal(t, 1, moved.Archived)
}

func TestBoardViewService_AddTaskEmptyResponseLeavesView(t *testing.T) {
	svc, _ := emptyOKServices(t)
	view := sampleView()

	task, err := svc.AddTask(context.Background(), view, "10", "New")
	assert.ErrorIs(t, err, entities.ErrEmptyResponse)
	assert.Nil(t, task)
	require.Len(t, view.Columns[0].Tasks, 1)
	assert.Equal(t, "1", view.Columns[0].Tasks[0].ID)
}

func TestBoardViewService_AddColumnEmptyResponseLeavesView(t *testing.T) {
	svc, _ := emptyOKServices(t)
	view := sampleView()

	_, err := svc.AddColumn(context.Background(), view, "Later")
	assert.ErrorIs(t, err, entities.ErrEmptyResponse)
	assert.Len(t, view.Columns, 2)
}

func TestBoardViewService_RenameColumnEmptyResponseUsesTitle(t *testing.T) {
	svc, _ := emptyOKServices(t)
	view := sampleView()

	require.NoError(t, svc.RenameColumn(context.Background(), view, "10", "  Backlog "))
	assert.Equal(t, "Backlog", view.Columns[0].Title)
}

func TestBoardService_EmptyResponses(t *testing.T) {
	_, boards := emptyOKServices(t)
	ctx := context.Background()

	renamed, err := boards.Rename(ctx, "3", " Plans ")
	require.NoError(t, err)
	assert.Equal(t, "3", renamed.ID)
	assert.Equal(t, "Plans", renamed.Title)

	_, err = boards.Create(ctx, "Fresh")
	assert.ErrorIs(t, err, entities.ErrEmptyResponse)
}

func TestMergeTaskUpdate(t *testing.T) {
	base := entities.TaskView{ID: "4", ColumnID: "10", Title: "a", Status: "active"}

	assert.Equal(t, base, MergeTaskUpdate(base, ports.UpdateTaskRequest{}))

	pos := 2
	got := MergeTaskUpdate(base, ports.UpdateTaskRequest{
		Description: entities.StringPtr("d"),
		Position:    &pos,
		Status:      entities.StringPtr("done"),
	})
	assert.Equal(t, "d", *got.Description)
	assert.Equal(t, 2, got.Position)
	assert.Equal(t, "done", got.Status)
	assert.Equal(t, "a", got.Title)
}
