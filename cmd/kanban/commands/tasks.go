package commands

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taskmaster/kanban/internal/application/services"
	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/ports"
)

// NewColumnsCommand creates the columns command with subcommands
func NewColumnsCommand() *cobra.Command {
	columnsCmd := &cobra.Command{
		Use:   "columns",
		Short: "Manage the columns of a board",
	}
	columnsCmd.PersistentFlags().String("board", "", "Board id (required)")
	_ = columnsCmd.MarkPersistentFlagRequired("board")

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Append a column",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(rt *runtime, args []string) error {
			view, err := loadBoard(rt, boardFlag(rt))
			if err != nil {
				return err
			}
			title, _ := rt.cmd.Flags().GetString("title")
			col, err := rt.boardView.AddColumn(rt.ctx(), view, title)
			if err != nil {
				return errors.New(entities.Message(err, "Failed to add column"))
			}
			rt.printf("Added column %s (%s)\n", col.ID, col.Title)
			return nil
		}),
	}
	addCmd.Flags().String("title", "", "Column title (required)")
	columnsCmd.AddCommand(addCmd)

	renameCmd := &cobra.Command{
		Use:   "rename <column-id>",
		Short: "Rename a column",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(rt *runtime, args []string) error {
			view, err := loadBoard(rt, boardFlag(rt))
			if err != nil {
				return err
			}
			title, _ := rt.cmd.Flags().GetString("title")
			if err := rt.boardView.RenameColumn(rt.ctx(), view, args[0], title); err != nil {
				return errors.New(entities.Message(err, "Failed to rename column"))
			}
			rt.printf("Renamed column %s\n", args[0])
			return nil
		}),
	}
	renameCmd.Flags().String("title", "", "New title (required)")
	columnsCmd.AddCommand(renameCmd)

	columnsCmd.AddCommand(&cobra.Command{
		Use:   "delete <column-id>",
		Short: "Delete a column and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(rt *runtime, args []string) error {
			view, err := loadBoard(rt, boardFlag(rt))
			if err != nil {
				return err
			}
			if err := rt.boardView.RemoveColumn(rt.ctx(), view, args[0]); err != nil {
				return errors.New(entities.Message(err, "Failed to delete column"))
			}
			rt.printf("Deleted column %s\n", args[0])
			return nil
		}),
	})

	return columnsCmd
}

// NewTasksCommand creates the tasks command with subcommands
func NewTasksCommand() *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage the tasks of a board",
	}
	tasksCmd.PersistentFlags().String("board", "", "Board id (required)")
	_ = tasksCmd.MarkPersistentFlagRequired("board")

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to the top of a column",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(rt *runtime, args []string) error {
			view, err := loadBoard(rt, boardFlag(rt))
			if err != nil {
				return err
			}
			columnID, _ := rt.cmd.Flags().GetString("column")
			title, _ := rt.cmd.Flags().GetString("title")
			task, err := rt.boardView.AddTask(rt.ctx(), view, columnID, title)
			if err != nil {
				return errors.New(entities.Message(err, "Failed to add task"))
			}
			rt.printf("Added task %s to column %s\n", task.ID, task.ColumnID)
			return nil
		}),
	}
	addCmd.Flags().String("column", "", "Column id (required)")
	addCmd.Flags().String("title", "", "Task title (required)")
	_ = addCmd.MarkFlagRequired("column")
	tasksCmd.AddCommand(addCmd)

	updateCmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Edit or move a task",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(rt *runtime, args []string) error {
			req, err := taskUpdateFromFlags(rt.cmd)
			if err != nil {
				return err
			}
			view, err := loadBoard(rt, boardFlag(rt))
			if err != nil {
				return err
			}
			task, err := rt.boardView.UpdateTask(rt.ctx(), view, args[0], req)
			if err != nil {
				return errors.New(entities.Message(err, "Failed to update task"))
			}
			rt.printf("Updated task %s (column %s, status %s)\n", task.ID, task.ColumnID, task.Status)
			return nil
		}),
	}
	updateCmd.Flags().String("title", "", "New title")
	updateCmd.Flags().String("description", "", "New description")
	updateCmd.Flags().String("column", "", "Move to this column")
	updateCmd.Flags().String("status", "", "New status")
	updateCmd.Flags().Bool("archived", false, "Archive (true) or restore (false) the task")
	tasksCmd.AddCommand(updateCmd)

	tasksCmd.AddCommand(&cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(rt *runtime, args []string) error {
			view, err := loadBoard(rt, boardFlag(rt))
			if err != nil {
				return err
			}
			if err := rt.boardView.RemoveTask(rt.ctx(), view, args[0]); err != nil {
				return errors.New(entities.Message(err, "Failed to delete task"))
			}
			rt.printf("Deleted task %s\n", args[0])
			return nil
		}),
	})

	return tasksCmd
}

func boardFlag(rt *runtime) string {
	id, _ := rt.cmd.Flags().GetString("board")
	return id
}

// taskUpdateFromFlags sends only the fields whose flags were given
func taskUpdateFromFlags(cmd *cobra.Command) (ports.UpdateTaskRequest, error) {
	var req ports.UpdateTaskRequest
	flags := cmd.Flags()

	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		req.Title = &title
	}
	if flags.Changed("description") {
		desc, _ := flags.GetString("description")
		req.Description = &desc
	}
	if flags.Changed("column") {
		raw, _ := flags.GetString("column")
		id, err := services.ParseID(raw)
		if err != nil {
			return req, errors.New("invalid column id " + strconv.Quote(raw))
		}
		req.ColumnID = &id
	}
	if flags.Changed("status") {
		status, _ := flags.GetString("status")
		req.Status = &status
	}
	if flags.Changed("archived") {
		archived, _ := flags.GetBool("archived")
		flag := 0
		if archived {
			flag = 1
		}
		req.Archived = &flag
	}

	if req == (ports.UpdateTaskRequest{}) {
		return req, errors.New("nothing to update; pass at least one of --title, --description, --column, --status, --archived")
	}
	return req, nil
}
