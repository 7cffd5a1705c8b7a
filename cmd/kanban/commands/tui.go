package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/taskmaster/kanban/internal/ui"
)

// NewTUICommand creates the full-screen board browser command
func NewTUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, setupOptions{quiet: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			open, _ := cmd.Flags().GetString("open")
			app := ui.NewApp(rt.session, rt.boards, rt.boardView, open)

			p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(rt.ctx()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("ui exited: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().String("open", "/", "Path to open first, e.g. /boards/3")
	return cmd
}
