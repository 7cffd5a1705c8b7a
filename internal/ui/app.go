package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskmaster/kanban/internal/application/services"
	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/ui/keys"
	"github.com/taskmaster/kanban/internal/ui/styles"
	"github.com/taskmaster/kanban/internal/ui/views"
)

type loggedOutMsg struct {
	err error
}

// App is the root model. It owns the current route and swaps pages on navigation.
type App struct {
	session *services.SessionService
	boards  *services.BoardService
	board   *services.BoardViewService
	styles  *styles.Styles
	keys    keys.KeyMap

	route Route
	page  views.Page
	err   string

	width  int
	height int
}

// NewApp creates the application positioned at startPath
func NewApp(session *services.SessionService, boards *services.BoardService, board *services.BoardViewService, startPath string) *App {
	a := &App{
		session: session,
		boards:  boards,
		board:   board,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
	}
	a.open(startPath, "")
	return a
}

// Route returns the route currently shown
func (a *App) Route() Route {
	return a.route
}

// open resolves path through the guard and builds the page for it
func (a *App) open(path, flash string) {
	a.route = Guard(ParseRoute(path), a.session.IsAuthenticated())

	switch a.route.Page {
	case PageLogin:
		a.page = views.NewLoginView(a.session, flash)
	case PageRegister:
		a.page = views.NewRegisterView(a.session)
	case PageBoards:
		a.page = views.NewBoardListView(a.boards)
	case PageBoard:
		a.page = views.NewBoardDetailView(a.board, a.route.BoardID)
	default:
		a.page = views.NewNotFoundView(a.route.Path)
	}
}

func (a *App) resize() tea.Cmd {
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

func (a *App) Init() tea.Cmd {
	return a.page.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case views.Navigate:
		a.err = ""
		a.open(msg.Path, msg.Flash)
		return a, tea.Batch(a.page.Init(), a.resize())

	case loggedOutMsg:
		if msg.err != nil {
			a.err = entities.Message(msg.err, "Logout failed")
			return a, nil
		}
		a.open("/login", "")
		return a, tea.Batch(a.page.Init(), a.resize())

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Logout) && a.session.IsAuthenticated() {
			return a, func() tea.Msg {
				return loggedOutMsg{err: a.session.Logout(context.Background())}
			}
		}
	}

	var cmd tea.Cmd
	a.page, cmd = a.page.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	parts := []string{views.RenderHeader(a.styles, a.session.User()), a.page.View()}
	if a.err != "" {
		parts = append(parts, a.styles.Error.Render(a.err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
