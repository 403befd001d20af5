package main

import (
	"catatin/models"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

const dueLayout = time.DateOnly

var (
	taskStatus      string
	taskDescription string
	taskPriority    string
	taskDue         string
	taskUndo        bool
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage the to-do list",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, most urgent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status := models.TaskStatus(strings.ToLower(taskStatus))
		switch status {
		case models.TaskStatusAll, models.TaskStatusActive, models.TaskStatusCompleted:
		default:
			return fmt.Errorf("unknown status %q: use active or completed", taskStatus)
		}

		tasks, err := application.Tasks.List(cmd.Context(), status)
		if err != nil {
			return fmt.Errorf("error listing tasks: %w", err)
		}

		if asJSON {
			return printJSON(cmd, tasks)
		}

		w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDONE\tPRIORITY\tDUE\tTITLE")
		for _, t := range tasks {
			done := "[ ]"
			if t.Completed {
				done = "[x]"
			}
			due := ""
			if t.DueAt != nil {
				due = t.DueAt.Local().Format(dueLayout)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, done, t.Priority, due, t.Title)
		}
		return w.Flush()
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := models.CreateTaskRequest{
			Title:       args[0],
			Description: taskDescription,
			Priority:    taskPriority,
		}
		if taskDue != "" {
			due, err := time.ParseInLocation(dueLayout, taskDue, time.Local)
			if err != nil {
				return fmt.Errorf("invalid due date %q: use YYYY-MM-DD", taskDue)
			}
			req.DueAt = &due
		}
		if err := application.Validator.Validate(req); err != nil {
			return err
		}

		priority := models.PriorityNormal
		if req.Priority != "" {
			priority, _ = models.ParsePriority(req.Priority)
		}

		task, err := application.Tasks.Create(cmd.Context(), models.Task{
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
			CreatedAt:   time.Now(),
			DueAt:       req.DueAt,
			Priority:    priority,
		}).Wait(cmd.Context())
		if err != nil {
			return fmt.Errorf("error saving task: %w", err)
		}

		if asJSON {
			return printJSON(cmd, task)
		}
		fmt.Fprintf(out(cmd), "Task created: %d\n", task.ID)
		return nil
	},
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done [id]",
	Short: "Mark a task completed, or active again with --undo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if _, err := application.Tasks.SetCompleted(cmd.Context(), id, !taskUndo).Wait(cmd.Context()); err != nil {
			return err
		}

		if taskUndo {
			fmt.Fprintf(out(cmd), "Task reopened: %d\n", id)
		} else {
			fmt.Fprintf(out(cmd), "Task completed: %d\n", id)
		}
		return nil
	},
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if _, err := application.Tasks.Delete(cmd.Context(), id).Wait(cmd.Context()); err != nil {
			return fmt.Errorf("error deleting task: %w", err)
		}

		fmt.Fprintf(out(cmd), "Task deleted: %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksListCmd, tasksAddCmd, tasksDoneCmd, tasksRmCmd)

	tasksListCmd.Flags().StringVar(&taskStatus, "status", "", "Filter by status: active or completed")
	tasksAddCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "Task description")
	tasksAddCmd.Flags().StringVarP(&taskPriority, "priority", "p", "", "LOW, NORMAL, HIGH or URGENT (default NORMAL)")
	tasksAddCmd.Flags().StringVar(&taskDue, "due", "", "Due date as YYYY-MM-DD")
	tasksDoneCmd.Flags().BoolVar(&taskUndo, "undo", false, "Mark the task active again")
}
