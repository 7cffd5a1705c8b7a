package entities

// BoardView is the Board -> Column[] -> Task[] tree rendered by a board page.
// It is rebuilt from scratch on every load and never persisted.
type BoardView struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Columns []ColumnView `json:"columns"`
}

// ColumnView is a column with its tasks attached
type ColumnView struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Position int        `json:"position"`
	Tasks    []TaskView `json:"tasks"`
}

// TaskView is a client-shaped task. Status and Archived are carried as the
// server sent them; neither is treated as the canonical completion signal.
type TaskView struct {
	ID          string  `json:"id"`
	ColumnID    string  `json:"column_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Position    int     `json:"position"`
	Status      string  `json:"status"`
	Archived    int     `json:"archived"`
}

// Column returns the column with the given id, or nil
func (b *BoardView) Column(id string) *ColumnView {
	for i := range b.Columns {
		if b.Columns[i].ID == id {
			return &b.Columns[i]
		}
	}
	return nil
}

// TaskCount returns the number of tasks across all columns
func (b *BoardView) TaskCount() int {
	n := 0
	for _, c := range b.Columns {
		n += len(c.Tasks)
	}
	return n
}

// FindTask locates a task and the column holding it
func (b *BoardView) FindTask(id string) (*ColumnView, int) {
	for i := range b.Columns {
		for j := range b.Columns[i].Tasks {
			if b.Columns[i].Tasks[j].ID == id {
				return &b.Columns[i], j
			}
		}
	}
	return nil, -1
}

// PrependTask inserts task at the front of its column
func (b *BoardView) PrependTask(task TaskView) bool {
	col := b.Column(task.ColumnID)
	if col == nil {
		return false
	}
	tasks := make([]TaskView, 0, len(col.Tasks)+1)
	tasks = append(tasks, task)
	col.Tasks = append(tasks, col.Tasks...)
	return true
}

// AppendColumn adds a column to the right end of the board
func (b *BoardView) AppendColumn(col ColumnView) {
	if col.Tasks == nil {
		col.Tasks = []TaskView{}
	}
	b.Columns = append(b.Columns, col)
}

// RemoveTask drops a task from whichever column holds it
func (b *BoardView) RemoveTask(id string) bool {
	col, idx := b.FindTask(id)
	if col == nil {
		return false
	}
	col.Tasks = append(col.Tasks[:idx:idx], col.Tasks[idx+1:]...)
	return true
}

// RemoveColumn drops a column and the tasks it holds
func (b *BoardView) RemoveColumn(id string) bool {
	for i := range b.Columns {
		if b.Columns[i].ID == id {
			b.Columns = append(b.Columns[:i:i], b.Columns[i+1:]...)
			return true
		}
	}
	return false
}
