package views

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Page is one screen of the application
type Page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Page, tea.Cmd)
	View() string
}

// Navigate asks the app to switch to another route
type Navigate struct {
	Path  string
	Flash string
}

func navigate(path, flash string) tea.Cmd {
	return func() tea.Msg {
		return Navigate{Path: path, Flash: flash}
	}
}

// loadSeq numbers every asynchronous load. A page only accepts results tagged
// with the number it issued last, so responses for a page that was replaced
// or reloaded in the meantime are dropped.
var loadSeq atomic.Uint64

func nextSeq() uint64 {
	return loadSeq.Add(1)
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

func renderForm(width, height int, body string) string {
	if width == 0 || height == 0 {
		return body
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
