package views

import (
	"context"
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

type loginResultMsg struct {
	seq uint64
	err error
}

// LoginView collects credentials and signs in
type LoginView struct {
	session *services.SessionService
	styles  *styles.Styles
	keys    keys.KeyMap

	email    textinput.Model
	password textinput.Model
	focusIdx int // 0=email, 1=password, 2=submit

	submitting bool
	seq        uint64
	err        string
	flash      string

	width  int
	height int
}

func NewLoginView(session *services.SessionService, flash string) *LoginView {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 200
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 200

	return &LoginView{
		session:  session,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		email:    email,
		password: password,
		flash:    flash,
	}
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *LoginView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if email == "" || password == "" {
		v.err = "Email and password are required"
		return nil
	}

	v.submitting = true
	v.err = ""
	v.seq = nextSeq()
	seq := v.seq
	return func() tea.Msg {
		_, err := v.session.Login(context.Background(), email, password)
		return loginResultMsg{seq: seq, err: err}
	}
}

func (v *LoginView) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case loginResultMsg:
		if msg.seq != v.seq {
			return v, nil
		}
		v.submitting = false
		if msg.err != nil {
			v.err = entities.Message(msg.err, "Login failed")
			return v, nil
		}
		return v, navigate("/boards", "")

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}
		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit
		case msg.String() == "ctrl+r":
			return v, navigate("/register", "")
		case key.Matches(msg, v.keys.ShiftTab):
			v.focusIdx = (v.focusIdx + 2) % 3
			v.updateFocus()
			return v, nil
		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % 3
			v.updateFocus()
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx < 2 {
				v.focusIdx++
				v.updateFocus()
				return v, nil
			}
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.email, cmd = v.email.Update(msg)
	case 1:
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *LoginView) updateFocus() {
	v.email.Blur()
	v.password.Blur()
	switch v.focusIdx {
	case 0:
		v.email.Focus()
	case 1:
		v.password.Focus()
	}
}

func (v *LoginView) View() string {
	s := v.styles

	emailStyle, passStyle, btnStyle := s.Input, s.Input, s.Button
	switch v.focusIdx {
	case 0:
		emailStyle = s.InputFocused
	case 1:
		passStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(v.width-10, 20, 40)
	button := " Sign in "
	if v.submitting {
		button = " Signing in... "
	}

	lines := []string{
		s.Title.Render("Sign in"),
		"",
	}
	if v.flash != "" {
		lines = append(lines, s.TitleMuted.Render(v.flash), "")
	}
	lines = append(lines,
		"Email:",
		emailStyle.Width(inputWidth).Render(v.email.View()),
		"Password:",
		passStyle.Width(inputWidth).Render(v.password.View()),
		"",
		btnStyle.Render(button),
	)
	if v.err != "" {
		lines = append(lines, "", s.Error.Render(v.err))
	}
	lines = append(lines, "", s.TitleMuted.Render("Tab: next • Enter: submit • Ctrl+R: create an account"))

	return renderForm(v.width, v.height, lipgloss.JoinVertical(lipgloss.Left, lines...))
}
