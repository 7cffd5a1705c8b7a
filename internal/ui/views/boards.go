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

type boardsLoadedMsg struct {
	seq    uint64
	boards []entities.BoardView
	err    error
}

type boardCreatedMsg struct {
	seq   uint64
	board *entities.BoardView
	err   error
}

type boardDeletedMsg struct {
	seq uint64
	id  string
	err error
}

// BoardListView lists the signed-in user's boards
type BoardListView struct {
	boards *services.BoardService
	styles *styles.Styles
	keys   keys.KeyMap

	items  []entities.BoardView
	cursor int
	loaded bool
	seq    uint64
	err    string

	creating bool
	newTitle textinput.Model

	confirmingDelete bool

	width  int
	height int
}

func NewBoardListView(boards *services.BoardService) *BoardListView {
	title := textinput.New()
	title.Placeholder = "Board title"
	title.CharLimit = 200

	return &BoardListView{
		boards:   boards,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		newTitle: title,
	}
}

func (v *BoardListView) Init() tea.Cmd {
	return v.load()
}

func (v *BoardListView) load() tea.Cmd {
	v.seq = nextSeq()
	seq := v.seq
	return func() tea.Msg {
		boards, err := v.boards.ListMine(context.Background())
		return boardsLoadedMsg{seq: seq, boards: boards, err: err}
	}
}

func (v *BoardListView) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case boardsLoadedMsg:
		if msg.seq != v.seq {
			return v, nil
		}
		v.loaded = true
		if msg.err != nil {
			v.err = entities.Message(msg.err, "Failed to load boards")
			return v, nil
		}
		v.err = ""
		v.items = msg.boards
		v.cursor = clamp(v.cursor, 0, max(len(v.items)-1, 0))
		return v, nil

	case boardCreatedMsg:
		if msg.seq != v.seq {
			return v, nil
		}
		if msg.err != nil {
			v.err = entities.Message(msg.err, "Failed to create board")
			return v, nil
		}
		v.items = append(v.items, *msg.board)
		v.cursor = len(v.items) - 1
		v.err = ""
		return v, nil

	case boardDeletedMsg:
		if msg.seq != v.seq {
			return v, nil
		}
		if msg.err != nil {
			v.err = entities.Message(msg.err, "Failed to delete board")
			return v, nil
		}
		for i := range v.items {
			if v.items[i].ID == msg.id {
				v.items = append(v.items[:i:i], v.items[i+1:]...)
				break
			}
		}
		v.cursor = clamp(v.cursor, 0, max(len(v.items)-1, 0))
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.creating {
			return v.updateCreating(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.items)-1 {
				v.cursor++
			}
		case key.Matches(msg, v.keys.Refresh):
			return v, v.load()
		case key.Matches(msg, v.keys.New):
			v.creating = true
			v.newTitle.Reset()
			v.newTitle.Focus()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Delete):
			if len(v.items) > 0 {
				v.confirmingDelete = true
			}
		case key.Matches(msg, v.keys.Enter):
			if len(v.items) > 0 {
				return v, navigate("/boards/"+v.items[v.cursor].ID, "")
			}
		}
	}
	return v, nil
}

func (v *BoardListView) updateCreating(msg tea.KeyMsg) (Page, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		v.newTitle.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		title := strings.TrimSpace(v.newTitle.Value())
		if title == "" {
			v.err = "Board title is required"
			return v, nil
		}
		v.creating = false
		v.newTitle.Blur()
		seq := v.seq
		return v, func() tea.Msg {
			board, err := v.boards.Create(context.Background(), title)
			return boardCreatedMsg{seq: seq, board: board, err: err}
		}
	}

	var cmd tea.Cmd
	v.newTitle, cmd = v.newTitle.Update(msg)
	return v, cmd
}

func (v *BoardListView) updateConfirmDelete(msg tea.KeyMsg) (Page, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		id := v.items[v.cursor].ID
		seq := v.seq
		return v, func() tea.Msg {
			err := v.boards.Delete(context.Background(), id)
			return boardDeletedMsg{seq: seq, id: id, err: err}
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *BoardListView) View() string {
	s := v.styles

	if !v.loaded {
		return s.TitleMuted.Render("Loading boards...")
	}

	lines := []string{s.Title.Render("My boards"), ""}

	if len(v.items) == 0 {
		lines = append(lines, s.TitleMuted.Render("No boards yet. Press 'n' to create one."))
	}
	for i, b := range v.items {
		style := s.ListItem
		if i == v.cursor {
			style = s.ListSelected
		}
		lines = append(lines, style.Render(b.Title))
	}

	if v.creating {
		lines = append(lines, "", "New board:", s.InputFocused.Width(clamp(v.width-10, 20, 50)).Render(v.newTitle.View()))
	}
	if v.confirmingDelete && len(v.items) > 0 {
		lines = append(lines, "", s.Error.Render(fmt.Sprintf("Delete %q and everything on it? (y/n)", v.items[v.cursor].Title)))
	}
	if v.err != "" {
		lines = append(lines, "", s.Error.Render(v.err))
	}

	lines = append(lines, s.Help.Render(fmt.Sprintf("%s open • %s new • %s delete • %s reload • %s quit",
		s.HelpKey.Render("↵"),
		s.HelpKey.Render("n"),
		s.HelpKey.Render("d"),
		s.HelpKey.Render("r"),
		s.HelpKey.Render("q"),
	)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
