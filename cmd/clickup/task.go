package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davidshq/clickup-utils-sub000/pkg/clickup"
	"github.com/davidshq/clickup-utils-sub000/pkg/ui"
)

var (
	taskListID      string
	taskName        string
	taskDescription string
	taskStatus      string
	taskPriority    int
	taskDueDate     int64
	taskAssignees   []int
	taskDeleteYes   bool
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Work with tasks",
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks in a list",
	Example: `  clickup task list --list 456`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		tasks, err := client.GetTasks(cmd.Context(), taskListID)
		if err != nil {
			return err
		}

		return printResult(tasks, ui.RenderTasks(tasks))
	},
}

var taskGetCmd = &cobra.Command{
	Use:     "get <task-id>",
	Short:   "Show a single task",
	Example: `  clickup task get abc123`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		task, err := client.GetTask(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printResult(task, ui.RenderTaskDetail(task))
	},
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task in a list",
	Example: `  clickup task create --list 456 --name "Write release notes"
  clickup task create --list 456 --name "Fix login" --priority 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := &clickup.CreateTaskRequest{
			Name:        taskName,
			Description: taskDescription,
			Priority:    taskPriority,
			DueDate:     taskDueDate,
			Assignees:   taskAssignees,
		}

		task, err := client.CreateTask(cmd.Context(), taskListID, req)
		if err != nil {
			return err
		}

		ui.PrintSuccess("Task created: " + task.ID)
		return printResult(task, ui.RenderTaskDetail(task))
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Update a task",
	Example: `  clickup task update abc123 --status "in progress"
  clickup task update abc123 --name "New title" --priority 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := &clickup.UpdateTaskRequest{
			Name:        taskName,
			Description: taskDescription,
			Status:      taskStatus,
			Priority:    taskPriority,
			DueDate:     taskDueDate,
		}

		task, err := client.UpdateTask(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}

		ui.PrintSuccess("Task updated: " + task.ID)
		return printResult(task, ui.RenderTaskDetail(task))
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete <task-id>",
	Short:   "Delete a task",
	Example: `  clickup task delete abc123 --yes`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID := args[0]

		if !taskDeleteYes {
			reader := bufio.NewReader(os.Stdin)
			fmt.Printf("Delete task '%s'? This cannot be undone. (y/N): ", taskID)
			input, _ := reader.ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
				return nil
			}
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		if err := client.DeleteTask(cmd.Context(), taskID); err != nil {
			return err
		}

		ui.PrintSuccess("Task deleted: " + taskID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskGetCmd)
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskDeleteCmd)

	taskListCmd.Flags().StringVar(&taskListID, "list", "", "list ID (required)")
	taskListCmd.MarkFlagRequired("list")

	taskCreateCmd.Flags().StringVar(&taskListID, "list", "", "list ID (required)")
	taskCreateCmd.Flags().StringVar(&taskName, "name", "", "task name (required)")
	taskCreateCmd.Flags().StringVar(&taskDescription, "description", "", "task description")
	taskCreateCmd.Flags().IntVar(&taskPriority, "priority", 0, "priority (1=urgent, 2=high, 3=normal, 4=low)")
	taskCreateCmd.Flags().Int64Var(&taskDueDate, "due", 0, "due date as milliseconds since epoch")
	taskCreateCmd.Flags().IntSliceVar(&taskAssignees, "assignee", nil, "assignee user ID (repeatable)")
	taskCreateCmd.MarkFlagRequired("list")
	taskCreateCmd.MarkFlagRequired("name")

	taskUpdateCmd.Flags().StringVar(&taskName, "name", "", "new task name")
	taskUpdateCmd.Flags().StringVar(&taskDescription, "description", "", "new description")
	taskUpdateCmd.Flags().StringVar(&taskStatus, "status", "", "new status")
	taskUpdateCmd.Flags().IntVar(&taskPriority, "priority", 0, "new priority (1=urgent, 2=high, 3=normal, 4=low)")
	taskUpdateCmd.Flags().Int64Var(&taskDueDate, "due", 0, "new due date as milliseconds since epoch")

	taskDeleteCmd.Flags().BoolVarP(&taskDeleteYes, "yes", "y", false, "skip the confirmation prompt")
}
