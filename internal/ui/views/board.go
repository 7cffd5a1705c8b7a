package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskmaster/kanban/internal/application/services"
	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/ui/keys"
	"github.com/taskmaster/kanban/internal/ui/styles"
)

type boardLoadedMsg struct {
	seq  uint64
	view *entities.BoardView
	err  error
}

// boardEditMsg carries the outcome of an edit. apply is nil when the server
// rejected it.
type boardEditMsg struct {
	seq   uint64
	apply func(*entities.BoardView)
	err   error
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAddTask
	modeAddColumn
)

// BoardDetailView shows one board's columns side by side
type BoardDetailView struct {
	service *services.BoardViewService
	boardID string
	styles  *styles.Styles
	keys    keys.KeyMap

	board   *entities.BoardView
	loading bool
	seq     uint64
	err     string

	// saving is set while an edit is in flight; further edits wait for it
	saving bool

	colIdx  int
	taskIdx int

	mode  inputMode
	input textinput.Model

	width  int
	height int
}

func NewBoardDetailView(service *services.BoardViewService, boardID string) *BoardDetailView {
	input := textinput.New()
	input.CharLimit = 200

	return &BoardDetailView{
		service: service,
		boardID: boardID,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		input:   input,
	}
}

func (v *BoardDetailView) Init() tea.Cmd {
	return v.load()
}

func (v *BoardDetailView) load() tea.Cmd {
	v.loading = true
	// a pending edit's result will carry the old seq and be dropped
	v.saving = false
	v.seq = nextSeq()
	seq := v.seq
	id := v.boardID
	return func() tea.Msg {
		view, err := v.service.Load(context.Background(), id)
		return boardLoadedMsg{seq: seq, view: view, err: err}
	}
}

// edit runs fn against a copy of the view off the update loop. fn returns
// the change to replay on the page's own view once the server accepted it.
func (v *BoardDetailView) edit(fallback string, fn func(ctx context.Context, working *entities.BoardView) (func(*entities.BoardView), error)) tea.Cmd {
	v.saving = true
	seq := v.seq
	working := cloneBoard(v.board)
	return func() tea.Msg {
		apply, err := fn(context.Background(), working)
		if err != nil {
			return boardEditMsg{seq: seq, err: fmt.Errorf("%s: %w", fallback, err)}
		}
		return boardEditMsg{seq: seq, apply: apply}
	}
}

func cloneBoard(b *entities.BoardView) *entities.BoardView {
	cp := *b
	cp.Columns = make([]entities.ColumnView, len(b.Columns))
	for i, c := range b.Columns {
		c.Tasks = append([]entities.TaskView{}, c.Tasks...)
		cp.Columns[i] = c
	}
	return &cp
}

func (v *BoardDetailView) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case boardLoadedMsg:
		if msg.seq != v.seq {
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = entities.Message(msg.err, "Failed to load board")
			return v, nil
		}
		v.err = ""
		v.board = msg.view
		v.clampCursor()
		return v, nil

	case boardEditMsg:
		if msg.seq != v.seq || v.board == nil {
			return v, nil
		}
		v.saving = false
		if msg.err != nil {
			v.err = entities.Message(msg.err, "Update failed")
			return v, nil
		}
		v.err = ""
		msg.apply(v.board)
		v.clampCursor()
		return v, nil

	case tea.KeyMsg:
		if v.mode != modeBrowse {
			return v.updateInput(msg)
		}
		return v.updateBrowse(msg)
	}
	return v, nil
}

func (v *BoardDetailView) updateBrowse(msg tea.KeyMsg) (Page, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Back):
		return v, navigate("/boards", "")
	case key.Matches(msg, v.keys.Refresh):
		return v, v.load()
	}

	if v.board == nil {
		return v, nil
	}

	if v.saving && isEditKey(v.keys, msg) {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Left):
		if v.colIdx > 0 {
			v.colIdx--
			v.taskIdx = 0
		}
	case key.Matches(msg, v.keys.Right):
		if v.colIdx < len(v.board.Columns)-1 {
			v.colIdx++
			v.taskIdx = 0
		}
	case key.Matches(msg, v.keys.Up):
		if v.taskIdx > 0 {
			v.taskIdx--
		}
	case key.Matches(msg, v.keys.Down):
		if col := v.currentColumn(); col != nil && v.taskIdx < len(col.Tasks)-1 {
			v.taskIdx++
		}
	case key.Matches(msg, v.keys.New):
		if v.currentColumn() != nil {
			return v, v.startInput(modeAddTask, "Task title")
		}
	case key.Matches(msg, v.keys.NewColumn):
		return v, v.startInput(modeAddColumn, "Column title")
	case key.Matches(msg, v.keys.Delete):
		if task := v.currentTask(); task != nil {
			id := task.ID
			return v, v.edit("Delete task", func(ctx context.Context, working *entities.BoardView) (func(*entities.BoardView), error) {
				if err := v.service.RemoveTask(ctx, working, id); err != nil {
					return nil, err
				}
				return func(b *entities.BoardView) { b.RemoveTask(id) }, nil
			})
		}
	case key.Matches(msg, v.keys.DeleteColumn):
		if col := v.currentColumn(); col != nil {
			id := col.ID
			return v, v.edit("Delete column", func(ctx context.Context, working *entities.BoardView) (func(*entities.BoardView), error) {
				if err := v.service.RemoveColumn(ctx, working, id); err != nil {
					return nil, err
				}
				return func(b *entities.BoardView) { b.RemoveColumn(id) }, nil
			})
		}
	}
	return v, nil
}

func isEditKey(km keys.KeyMap, msg tea.KeyMsg) bool {
	return key.Matches(msg, km.New) || key.Matches(msg, km.NewColumn) ||
		key.Matches(msg, km.Delete) || key.Matches(msg, km.DeleteColumn)
}

func (v *BoardDetailView) startInput(mode inputMode, placeholder string) tea.Cmd {
	v.mode = mode
	v.input.Reset()
	v.input.Placeholder = placeholder
	v.input.Focus()
	return textinput.Blink
}

func (v *BoardDetailView) updateInput(msg tea.KeyMsg) (Page, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeBrowse
		v.input.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		title := strings.TrimSpace(v.input.Value())
		if title == "" {
			v.err = "Title is required"
			return v, nil
		}
		if v.saving {
			v.err = "Still saving the previous change"
			return v, nil
		}
		mode := v.mode
		v.mode = modeBrowse
		v.input.Blur()

		if mode == modeAddColumn {
			return v, v.edit("Add column", func(ctx context.Context, working *entities.BoardView) (func(*entities.BoardView), error) {
				col, err := v.service.AddColumn(ctx, working, title)
				if err != nil {
					return nil, err
				}
				return func(b *entities.BoardView) { b.AppendColumn(*col) }, nil
			})
		}

		col := v.currentColumn()
		if col == nil {
			return v, nil
		}
		columnID := col.ID
		v.taskIdx = 0
		return v, v.edit("Add task", func(ctx context.Context, working *entities.BoardView) (func(*entities.BoardView), error) {
			task, err := v.service.AddTask(ctx, working, columnID, title)
			if err != nil {
				return nil, err
			}
			return func(b *entities.BoardView) { b.PrependTask(*task) }, nil
		})
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *BoardDetailView) currentColumn() *entities.ColumnView {
	if v.board == nil || v.colIdx >= len(v.board.Columns) {
		return nil
	}
	return &v.board.Columns[v.colIdx]
}

func (v *BoardDetailView) currentTask() *entities.TaskView {
	col := v.currentColumn()
	if col == nil || v.taskIdx >= len(col.Tasks) {
		return nil
	}
	return &col.Tasks[v.taskIdx]
}

func (v *BoardDetailView) clampCursor() {
	if v.board == nil {
		return
	}
	v.colIdx = clamp(v.colIdx, 0, max(len(v.board.Columns)-1, 0))
	if col := v.currentColumn(); col != nil {
		v.taskIdx = clamp(v.taskIdx, 0, max(len(col.Tasks)-1, 0))
	} else {
		v.taskIdx = 0
	}
}

func (v *BoardDetailView) View() string {
	s := v.styles

	if v.board == nil {
		if v.err != "" {
			return lipgloss.JoinVertical(lipgloss.Left,
				s.Error.Render(v.err),
				s.Help.Render("r reload • esc back"),
			)
		}
		return s.TitleMuted.Render("Loading board...")
	}

	columns := make([]string, 0, len(v.board.Columns))
	for i, col := range v.board.Columns {
		columns = append(columns, v.renderColumn(i, col))
	}

	body := s.TitleMuted.Render("No columns yet. Press 'c' to add one.")
	if len(columns) > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	}

	heading := s.Title.Render(v.board.Title)
	if v.saving {
		heading = lipgloss.JoinHorizontal(lipgloss.Top, heading, s.TitleMuted.Render(" saving..."))
	}
	lines := []string{heading, "", body}

	switch v.mode {
	case modeAddTask:
		lines = append(lines, "", "New task:", s.InputFocused.Width(40).Render(v.input.View()))
	case modeAddColumn:
		lines = append(lines, "", "New column:", s.InputFocused.Width(40).Render(v.input.View()))
	}
	if v.err != "" {
		lines = append(lines, "", s.Error.Render(v.err))
	}

	lines = append(lines, s.Help.Render(fmt.Sprintf("%s move • %s new task • %s new column • %s delete task • %s delete column • %s reload • %s back",
		s.HelpKey.Render("←↑↓→"),
		s.HelpKey.Render("n"),
		s.HelpKey.Render("c"),
		s.HelpKey.Render("d"),
		s.HelpKey.Render("D"),
		s.HelpKey.Render("r"),
		s.HelpKey.Render("esc"),
	)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *BoardDetailView) renderColumn(idx int, col entities.ColumnView) string {
	s := v.styles
	focused := idx == v.colIdx

	lines := []string{s.ColumnTitle.Render(fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks))), ""}
	for j, task := range col.Tasks {
		style := s.Task
		switch {
		case focused && j == v.taskIdx:
			style = s.TaskSelected
		case task.Archived == 1:
			style = s.TaskMuted
		}
		lines = append(lines, style.Render("• "+task.Title))
	}

	box := s.Column
	if focused {
		box = s.ColumnFocused
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
