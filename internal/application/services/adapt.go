package services

import (
	"sort"
	"strconv"

	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/ports"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseID converts a view id back into the numeric id the API expects
func ParseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, entities.ErrInvalidID
	}
	return n, nil
}

// AdaptTask converts an API task into its view shape
func AdaptTask(t entities.Task) entities.TaskView {
	status := t.Status
	if status == "" {
		status = entities.TaskStatusActive
	}
	archived := 0
	if t.Archived != 0 {
		archived = 1
	}
	return entities.TaskView{
		ID:          formatID(t.ID),
		ColumnID:    formatID(t.ColumnID),
		Title:       t.Title,
		Description: t.Description,
		Position:    t.Position,
		Status:      status,
		Archived:    archived,
	}
}

// MergeTaskUpdate applies the fields set in req to task
func MergeTaskUpdate(task entities.TaskView, req ports.UpdateTaskRequest) entities.TaskView {
	if req.ColumnID != nil {
		task.ColumnID = formatID(*req.ColumnID)
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		desc := *req.Description
		task.Description = &desc
	}
	if req.Position != nil {
		task.Position = *req.Position
	}
	if req.Status != nil && *req.Status != "" {
		task.Status = *req.Status
	}
	if req.Archived != nil {
		task.Archived = 0
		if *req.Archived != 0 {
			task.Archived = 1
		}
	}
	return task
}

// AdaptColumn converts an API column into an empty view column
func AdaptColumn(c entities.Column) entities.ColumnView {
	return entities.ColumnView{
		ID:       formatID(c.ID),
		Title:    c.Title,
		Position: c.Position,
		Tasks:    []entities.TaskView{},
	}
}

// AdaptBoard converts an API board into a view with no columns
func AdaptBoard(b entities.Board) entities.BoardView {
	return entities.BoardView{
		ID:      formatID(b.ID),
		Title:   b.Title,
		Columns: []entities.ColumnView{},
	}
}

// AssembleBoard nests flat column and task lists under the board.
// Columns and tasks are ordered by position; equal positions keep the order
// the server returned them in. Tasks whose column is not on the board are
// dropped.
func AssembleBoard(board entities.Board, columns []entities.Column, tasks []entities.Task) entities.BoardView {
	view := AdaptBoard(board)

	sortedCols := make([]entities.Column, len(columns))
	copy(sortedCols, columns)
	sort.SliceStable(sortedCols, func(i, j int) bool {
		return sortedCols[i].Position < sortedCols[j].Position
	})

	sortedTasks := make([]entities.Task, len(tasks))
	copy(sortedTasks, tasks)
	sort.SliceStable(sortedTasks, func(i, j int) bool {
		return sortedTasks[i].Position < sortedTasks[j].Position
	})

	buckets := make(map[int64][]entities.TaskView, len(sortedCols))
	for _, t := range sortedTasks {
		buckets[t.ColumnID] = append(buckets[t.ColumnID], AdaptTask(t))
	}

	for _, c := range sortedCols {
		col := AdaptColumn(c)
		if bucket, ok := buckets[c.ID]; ok {
			col.Tasks = bucket
		}
		view.Columns = append(view.Columns, col)
	}
	return view
}
