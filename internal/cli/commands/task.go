package commands

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kutbudev/taskboard/internal/api"
	"github.com/kutbudev/taskboard/internal/cli/interactive"
	"github.com/kutbudev/taskboard/internal/db"
	"github.com/kutbudev/taskboard/internal/models"
)

// NewTaskCmd creates the task command with all subcommands
func NewTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Task management commands",
		Long:  "Create, list, update, and manage tasks",
	}

	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskCreateCmd())
	cmd.AddCommand(newTaskInfoCmd())
	cmd.AddCommand(newTaskDoneCmd())
	cmd.AddCommand(newTaskMoveCmd())
	cmd.AddCommand(newTaskDeleteCmd())
	cmd.AddCommand(newTaskActivityCmd())
	cmd.AddCommand(newTaskCommentCmd())

	return cmd
}

// task list
func newTaskListCmd() *cobra.Command {
	var status, priority, search, sort string
	var page int

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List tasks",
		Aliases: []string{"ls"},
		Run: func(cmd *cobra.Command, args []string) {
			query := url.Values{}
			if status != "" {
				query.Set("status", status)
			}
			if priority != "" {
				query.Set("priority", priority)
			}
			if search != "" {
				query.Set("search", search)
			}
			if sort != "" {
				query.Set("sort", sort)
			}
			query.Set("page", strconv.Itoa(page))

			client := api.NewClient()
			result, err := client.ListTasks(query)
			if err != nil {
				fmt.Printf("❌ Error fetching tasks: %v\n", err)
				os.Exit(1)
			}

			if len(result.Tasks) == 0 {
				fmt.Println("No tasks found")
				return
			}

			for _, task := range result.Tasks {
				fmt.Println(formatTaskLine(task))
			}
			fmt.Printf("\nPage %d/%d (%d tasks)\n",
				result.Pagination.Page, result.Pagination.TotalPages, result.Pagination.Total)
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (todo, in_progress, done)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Filter by priority (Low, Medium, High)")
	cmd.Flags().StringVar(&search, "search", "", "Search in title and description")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort by due_date, priority, created_at or title")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")

	return cmd
}

// task create
func newTaskCreateCmd() *cobra.Command {
	var description, priority, dueDate, assignTo string
	var categoryID uint
	var subtasks []string
	var isInteractive bool

	cmd := &cobra.Command{
		Use:     "create [title]",
		Short:   "Create a new task",
		Aliases: []string{"add"},
		Run: func(cmd *cobra.Command, args []string) {
			var payload api.TaskPayload

			if isInteractive {
				p, err := interactive.CreateTaskInteractive()
				if err != nil {
					fmt.Printf("❌ Interactive task creation failed: %v\n", err)
					os.Exit(1)
				}
				payload = p
			} else {
				if len(args) < 1 {
					fmt.Println("❌ Title is required when not in interactive mode.")
					fmt.Println("💡 Use 'taskboard-cli task create \"My new task\"' or 'taskboard-cli task create -i'")
					return
				}
				payload = api.TaskPayload{
					Title:       strings.Join(args, " "),
					Description: description,
					Priority:    priority,
					DueDate:     dueDate,
					AssignedTo:  assignTo,
				}
				if categoryID > 0 {
					payload.CategoryID = &categoryID
				}
				for _, title := range subtasks {
					payload.Subtasks = append(payload.Subtasks, db.SubtaskInput{Title: title})
				}
			}

			client := api.NewClient()
			task, err := client.CreateTask(payload)
			if err != nil {
				fmt.Printf("❌ Failed to create task: %v\n", err)
				os.Exit(1)
			}

			fmt.Printf("✅ Created task #%d: %s\n", task.ID, task.Title)
			if len(task.Subtasks) > 0 {
				fmt.Printf("   with %d subtasks\n", len(task.Subtasks))
			}
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority (Low, Medium, High)")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&assignTo, "assign", "", "Assignee name")
	cmd.Flags().UintVarP(&categoryID, "category", "c", 0, "Category ID")
	cmd.Flags().StringArrayVar(&subtasks, "subtask", nil, "Subtask title (repeatable)")
	cmd.Flags().BoolVarP(&isInteractive, "interactive", "i", false, "Interactive mode")

	return cmd
}

// task info
func newTaskInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [id]",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id := mustParseID(args[0])

			client := api.NewClient()
			task, err := client.GetTask(id)
			if err != nil {
				fmt.Printf("❌ Error fetching task: %v\n", err)
				os.Exit(1)
			}

			fmt.Printf("%s #%d %s\n", priorityIcon(task.Priority), task.ID, task.Title)
			fmt.Printf("   Status:   %s\n", models.StatusLabels[task.Status])
			if task.CategoryName != nil {
				fmt.Printf("   Category: %s\n", *task.CategoryName)
			}
			if task.AssignedTo != nil && *task.AssignedTo != "" {
				fmt.Printf("   Assignee: %s\n", *task.AssignedTo)
			}
			if task.DueDate != nil {
				fmt.Printf("   Due:      %s\n", *task.DueDate)
			}
			if task.Description != "" {
				fmt.Printf("   %s\n", task.Description)
			}

			if len(task.Subtasks) > 0 {
				fmt.Println("\n   Subtasks:")
				for _, st := range task.Subtasks {
					check := "☐"
					if st.IsDone {
						check = "☑"
					}
					fmt.Printf("   %s #%d %s\n", check, st.ID, st.Title)
				}
			}

			if len(task.Comments) > 0 {
				fmt.Println("\n   Comments:")
				for _, comment := range task.Comments {
					fmt.Printf("   💬 %s: %s\n", comment.Author, comment.Content)
				}
			}
		},
	}
}

// task done
func newTaskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done [id]",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id := mustParseID(args[0])

			client := api.NewClient()
			if err := client.MoveTask(id, models.StatusDone); err != nil {
				fmt.Printf("❌ Failed to move task: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✅ Task #%d marked as done\n", id)
		},
	}
}

// task move
func newTaskMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move [id] [status]",
		Short: "Move a task to another status column",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			id := mustParseID(args[0])
			status := args[1]

			client := api.NewClient()
			if err := client.MoveTask(id, status); err != nil {
				fmt.Printf("❌ Failed to move task: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("🔄 Task #%d moved to %s\n", id, status)
		},
	}
}

// task delete
func newTaskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [id]",
		Short:   "Delete a task and everything it owns",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id := mustParseID(args[0])

			client := api.NewClient()
			if err := client.DeleteTask(id); err != nil {
				fmt.Printf("❌ Failed to delete task: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("🗑️  Task #%d deleted\n", id)
		},
	}
}

// task activity
func newTaskActivityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activity [id]",
		Short: "Show a task's activity log",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id := mustParseID(args[0])

			client := api.NewClient()
			entries, err := client.ListActivity(id)
			if err != nil {
				fmt.Printf("❌ Error fetching activity: %v\n", err)
				os.Exit(1)
			}

			if len(entries) == 0 {
				fmt.Println("No activity recorded")
				return
			}
			for _, entry := range entries {
				fmt.Printf("[%s] %s: %s\n",
					entry.CreatedAt.Format("2006-01-02 15:04"), entry.Action, entry.Details)
			}
		},
	}
}

// task comment
func newTaskCommentCmd() *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "comment [id] [content]",
		Short: "Add a comment to a task",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			id := mustParseID(args[0])
			content := strings.Join(args[1:], " ")

			client := api.NewClient()
			comment, err := client.AddComment(id, author, content)
			if err != nil {
				fmt.Printf("❌ Failed to add comment: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("💬 Comment #%d added by %s\n", comment.ID, comment.Author)
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Comment author (defaults to Anonymous)")

	return cmd
}

func formatTaskLine(task db.TaskSummary) string {
	line := fmt.Sprintf("%s #%d [%s] %s", priorityIcon(task.Priority), task.ID, models.StatusLabels[task.Status], task.Title)
	if task.SubtasksTotal > 0 {
		line += fmt.Sprintf(" (%d/%d)", task.SubtasksCompleted, task.SubtasksTotal)
	}
	if task.DueDate != nil {
		line += " due " + task.DueDate.String()
	}
	return line
}

func priorityIcon(priority string) string {
	switch priority {
	case models.PriorityHigh:
		return "🔴"
	case models.PriorityMedium:
		return "🟡"
	case models.PriorityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

func mustParseID(s string) uint {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		fmt.Printf("❌ Invalid ID: %s\n", s)
		os.Exit(1)
	}
	return uint(id)
}
