package commands

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/taskmaster/kanban/internal/domain/entities"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// NewBoardsCommand creates the boards command with subcommands
func NewBoardsCommand() *cobra.Command {
	boardsCmd := &cobra.Command{
		Use:   "boards",
		Short: "Manage your boards",
	}

	boardsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the boards you own",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(rt *runtime, args []string) error {
			if err := requireSession(rt); err != nil {
				return err
			}
			boards, err := rt.boards.ListMine(rt.ctx())
			if err != nil {
				return errors.New(entities.Message(err, "Failed to load boards"))
			}
			if len(boards) == 0 {
				rt.printf("No boards yet\n")
				return nil
			}

			t := newTable("ID", "TITLE")
			for _, b := range boards {
				t.Row(b.ID, b.Title)
			}
			rt.printf("%s\n", t.Render())
			return nil
		}),
	})

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a board",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(rt *runtime, args []string) error {
			title, _ := rt.cmd.Flags().GetString("title")
			board, err := rt.boards.Create(rt.ctx(), title)
			if err != nil {
				return errors.New(entities.Message(err, "Failed to create board"))
			}
			rt.printf("Created board %s (%s)\n", board.ID, board.Title)
			return nil
		}),
	}
	createCmd.Flags().String("title", "", "Board title (required)")
	boardsCmd.AddCommand(createCmd)

	renameCmd := &cobra.Command{
		Use:   "rename <board-id>",
		Short: "Rename a board",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(rt *runtime, args []string) error {
			title, _ := rt.cmd.Flags().GetString("title")
			board, err := rt.boards.Rename(rt.ctx(), args[0], title)
			if err != nil {
				return errors.New(entities.Message(err, "Failed to rename board"))
			}
			rt.printf("Renamed board %s to %s\n", board.ID, board.Title)
			return nil
		}),
	}
	renameCmd.Flags().String("title", "", "New title (required)")
	boardsCmd.AddCommand(renameCmd)

	boardsCmd.AddCommand(&cobra.Command{
		Use:   "delete <board-id>",
		Short: "Delete a board and everything on it",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(rt *runtime, args []string) error {
			if err := rt.boards.Delete(rt.ctx(), args[0]); err != nil {
				return errors.New(entities.Message(err, "Failed to delete board"))
			}
			rt.printf("Deleted board %s\n", args[0])
			return nil
		}),
	})

	return boardsCmd
}

// NewBoardCommand creates the board command for a single board
func NewBoardCommand() *cobra.Command {
	boardCmd := &cobra.Command{
		Use:   "board",
		Short: "Inspect a single board",
	}

	boardCmd.AddCommand(&cobra.Command{
		Use:   "show <board-id>",
		Short: "Show a board's columns and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(rt *runtime, args []string) error {
			view, err := loadBoard(rt, args[0])
			if err != nil {
				return err
			}
			rt.printf("%s\n", renderBoard(view))
			return nil
		}),
	})

	return boardCmd
}

func loadBoard(rt *runtime, id string) (*entities.BoardView, error) {
	if err := requireSession(rt); err != nil {
		return nil, err
	}
	view, err := rt.boardView.Load(rt.ctx(), id)
	if err != nil {
		return nil, errors.New(entities.Message(err, "Failed to load board"))
	}
	return view, nil
}

// renderBoard lays the columns out side by side, one task per row
func renderBoard(view *entities.BoardView) string {
	title := headerStyle.Render(fmt.Sprintf("%s (board %s)", view.Title, view.ID))
	if len(view.Columns) == 0 {
		return title + "\nNo columns yet"
	}

	headers := make([]string, len(view.Columns))
	depth := 0
	for i, col := range view.Columns {
		headers[i] = fmt.Sprintf("%s [%s]", col.Title, col.ID)
		depth = max(depth, len(col.Tasks))
	}

	t := newTable(headers...)
	for row := 0; row < depth; row++ {
		cells := make([]string, len(view.Columns))
		for i, col := range view.Columns {
			if row < len(col.Tasks) {
				cells[i] = taskLabel(col.Tasks[row])
			}
		}
		t.Row(cells...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, t.Render())
}

func taskLabel(task entities.TaskView) string {
	label := fmt.Sprintf("#%s %s", task.ID, task.Title)
	if task.Archived == 1 {
		label += " (archived)"
	}
	return label
}
