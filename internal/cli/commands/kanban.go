package commands

import (
	"fmt"
	"net/url"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kutbudev/taskboard/internal/api"
	"github.com/kutbudev/taskboard/internal/db"
	"github.com/kutbudev/taskboard/internal/models"
)

const kanbanColumnWidth = 30

var (
	columnStyle = lipgloss.NewStyle().
			Width(kanbanColumnWidth).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder())

	columnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Width(kanbanColumnWidth - 2).
				Align(lipgloss.Center)

	taskLineStyle = lipgloss.NewStyle().
			Width(kanbanColumnWidth - 2)
)

// NewKanbanCmd creates the kanban command, fully API-driven.
func NewKanbanCmd() *cobra.Command {
	var categoryID string

	cmd := &cobra.Command{
		Use:   "kanban",
		Short: "Display tasks in a kanban board view",
		Long:  "Show a visual overview of tasks organized by status (To Do, In Progress, Done).",
		Run: func(cmd *cobra.Command, args []string) {
			client := api.NewClient()

			columns := make([][]db.TaskSummary, 0, 3)
			for _, status := range []string{models.StatusTodo, models.StatusInProgress, models.StatusDone} {
				query := url.Values{}
				query.Set("status", status)
				query.Set("sort", "priority")
				if categoryID != "" {
					query.Set("category_id", categoryID)
				}

				page, err := client.ListTasks(query)
				if err != nil {
					fmt.Printf("❌ Error fetching %s tasks: %v\n", status, err)
					os.Exit(1)
				}
				columns = append(columns, page.Tasks)
			}

			displayKanbanBoard(columns[0], columns[1], columns[2])
		},
	}

	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "Filter by category ID")

	return cmd
}

func displayKanbanBoard(todo, inProgress, done []db.TaskSummary) {
	fmt.Println("📋 Task Kanban Board")
	fmt.Println()

	board := lipgloss.JoinHorizontal(lipgloss.Top,
		renderColumn("📝 To Do", todo),
		renderColumn("🚀 In Progress", inProgress),
		renderColumn("✅ Done", done),
	)
	fmt.Println(board)

	fmt.Printf("Summary: %d to do, %d in progress, %d done\n", len(todo), len(inProgress), len(done))
	fmt.Println()
	fmt.Println("Priority: 🔴 High | 🟡 Medium | 🟢 Low")
}

func renderColumn(title string, tasks []db.TaskSummary) string {
	lines := []string{columnTitleStyle.Render(title)}
	for _, task := range tasks {
		cell := fmt.Sprintf("%s #%d %s", priorityIcon(task.Priority), task.ID,
			truncate(task.Title, kanbanColumnWidth-10))
		if task.SubtasksTotal > 0 {
			cell += fmt.Sprintf(" %d/%d", task.SubtasksCompleted, task.SubtasksTotal)
		}
		lines = append(lines, taskLineStyle.Render(cell))
	}
	if len(tasks) == 0 {
		lines = append(lines, taskLineStyle.Render("—"))
	}
	return columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// truncate shortens by runes so multibyte titles are never cut mid-character.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
