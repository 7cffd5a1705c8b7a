package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings shared by every page
type KeyMap struct {
	Quit         key.Binding
	Back         key.Binding
	Enter        key.Binding
	Tab          key.Binding
	ShiftTab     key.Binding
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	New          key.Binding
	NewColumn    key.Binding
	Delete       key.Binding
	DeleteColumn key.Binding
	Refresh      key.Binding
	Logout       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Enter:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "select")),
		Tab:          key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		ShiftTab:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Up:           key.NewBinding(key.WithKeys("up", "k")),
		Down:         key.NewBinding(key.WithKeys("down", "j")),
		Left:         key.NewBinding(key.WithKeys("left", "h")),
		Right:        key.NewBinding(key.WithKeys("right", "l")),
		New:          key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		NewColumn:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new column")),
		Delete:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		DeleteColumn: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete column")),
		Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Logout:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
	}
}
