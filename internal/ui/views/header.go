package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/ui/keys"
	"github.com/taskmaster/kanban/internal/ui/styles"
)

// RenderHeader draws the top bar. Signed out, it only shows the app name.
func RenderHeader(s *styles.Styles, user *entities.User) string {
	title := s.Header.Render("Kanban")
	if user == nil {
		return title
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		title,
		s.HeaderUser.Render(user.DisplayName()),
		s.HeaderUser.Render("ctrl+l logout"),
	)
}

// NotFoundView is shown for unknown routes
type NotFoundView struct {
	path   string
	styles *styles.Styles
	keys   keys.KeyMap
}

func NewNotFoundView(path string) *NotFoundView {
	return &NotFoundView{path: path, styles: styles.NewStyles(), keys: keys.DefaultKeyMap()}
}

func (v *NotFoundView) Init() tea.Cmd { return nil }

func (v *NotFoundView) Update(msg tea.Msg) (Page, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Back):
			return v, navigate("/", "")
		}
	}
	return v, nil
}

func (v *NotFoundView) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Error.Render("Page not found: "+v.path),
		v.styles.Help.Render("↵ go to your boards • q quit"),
	)
}
