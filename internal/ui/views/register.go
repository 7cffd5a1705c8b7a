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

type registerResultMsg struct {
	seq uint64
	err error
}

// RegisterView creates an account and then sends the user to sign in
type RegisterView struct {
	session *services.SessionService
	styles  *styles.Styles
	keys    keys.KeyMap

	inputs   []textinput.Model // email, password, name
	focusIdx int               // len(inputs) is the submit button

	submitting bool
	seq        uint64
	err        string

	width  int
	height int
}

func NewRegisterView(session *services.SessionService) *RegisterView {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 200
	email.Focus()

	password := textinput.New()
	password.Placeholder = "At least 6 characters"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 200

	name := textinput.New()
	name.Placeholder = "Name (optional)"
	name.CharLimit = 100

	return &RegisterView{
		session: session,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		inputs:  []textinput.Model{email, password, name},
	}
}

func (v *RegisterView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *RegisterView) submit() tea.Cmd {
	email := strings.TrimSpace(v.inputs[0].Value())
	password := v.inputs[1].Value()
	name := strings.TrimSpace(v.inputs[2].Value())
	if email == "" || password == "" {
		v.err = "Email and password are required"
		return nil
	}

	v.submitting = true
	v.err = ""
	v.seq = nextSeq()
	seq := v.seq
	return func() tea.Msg {
		err := v.session.Register(context.Background(), email, password, name)
		return registerResultMsg{seq: seq, err: err}
	}
}

func (v *RegisterView) Update(msg tea.Msg) (Page, tea.Cmd) {
	steps := len(v.inputs) + 1

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case registerResultMsg:
		if msg.seq != v.seq {
			return v, nil
		}
		v.submitting = false
		if msg.err != nil {
			v.err = entities.Message(msg.err, "Registration failed")
			return v, nil
		}
		return v, navigate("/login", "Account created. Sign in to continue.")

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}
		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, navigate("/login", "")
		case key.Matches(msg, v.keys.ShiftTab):
			v.focusIdx = (v.focusIdx + steps - 1) % steps
			v.updateFocus()
			return v, nil
		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % steps
			v.updateFocus()
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx < len(v.inputs) {
				v.focusIdx++
				v.updateFocus()
				return v, nil
			}
			return v, v.submit()
		}
	}

	if v.focusIdx < len(v.inputs) {
		var cmd tea.Cmd
		v.inputs[v.focusIdx], cmd = v.inputs[v.focusIdx].Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *RegisterView) updateFocus() {
	for i := range v.inputs {
		if i == v.focusIdx {
			v.inputs[i].Focus()
		} else {
			v.inputs[i].Blur()
		}
	}
}

func (v *RegisterView) View() string {
	s := v.styles
	inputWidth := clamp(v.width-10, 20, 40)
	labels := []string{"Email:", "Password:", "Name:"}

	lines := []string{s.Title.Render("Create an account"), ""}
	for i, in := range v.inputs {
		style := s.Input
		if i == v.focusIdx {
			style = s.InputFocused
		}
		lines = append(lines, labels[i], style.Width(inputWidth).Render(in.View()))
	}

	btnStyle := s.Button
	if v.focusIdx == len(v.inputs) {
		btnStyle = s.ButtonFocused
	}
	button := " Register "
	if v.submitting {
		button = " Registering... "
	}
	lines = append(lines, "", btnStyle.Render(button))

	if v.err != "" {
		lines = append(lines, "", s.Error.Render(v.err))
	}
	lines = append(lines, "", s.TitleMuted.Render("Tab: next • Enter: submit • Esc: back to sign in"))

	return renderForm(v.width, v.height, lipgloss.JoinVertical(lipgloss.Left, lines...))
}
