package db

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/kutbudev/taskboard/internal/models"
	"github.com/kutbudev/taskboard/pkg/validate"
)

// TaskFilter carries the optional list criteria. Zero values mean the
// filter is absent and is omitted from the query, never matched as NULL.
type TaskFilter struct {
	Status     string
	CategoryID string
	Priority   string
	AssignedTo string
	Search     string
	Sort       string
	Page       int
	PerPage    int
}

// TaskSummary is a list row: the task plus its denormalized category and
// subtask completion counts. List views are summaries; nested subtask and
// comment detail is only returned by GetTask.
type TaskSummary struct {
	ID                uint         `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Priority          string       `json:"priority"`
	Status            string       `json:"status"`
	DueDate           *models.Date `json:"due_date"`
	CategoryID        *uint        `json:"category_id"`
	AssignedTo        *string      `json:"assigned_to"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
	CategoryName      *string      `json:"category_name"`
	CategoryColor     *string      `json:"category_color"`
	SubtasksTotal     int          `json:"subtasks_total"`
	SubtasksCompleted int          `json:"subtasks_completed"`
}

// TaskDetail is the fully assembled single-task view.
type TaskDetail struct {
	ID            uint             `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Priority      string           `json:"priority"`
	Status        string           `json:"status"`
	DueDate       *models.Date     `json:"due_date"`
	CategoryID    *uint            `json:"category_id"`
	AssignedTo    *string          `json:"assigned_to"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	CategoryName  *string          `json:"category_name"`
	CategoryColor *string          `json:"category_color"`
	Subtasks      []models.Subtask `json:"subtasks" gorm:"-"`
	Comments      []models.Comment `json:"comments" gorm:"-"`
}

// Pagination describes the page of a task listing.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// TaskPage is the result of a filtered task listing.
type TaskPage struct {
	Tasks      []TaskSummary `json:"tasks"`
	Pagination Pagination    `json:"pagination"`
}

// SubtaskInput is one entry of a subtasks payload.
type SubtaskInput struct {
	Title  string `json:"title"`
	IsDone bool   `json:"is_done"`
}

// CreateTaskInput is a normalized create payload: title sanitized and
// non-empty, priority/status already coerced, due date already validated.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     *models.Date
	CategoryID  *uint
	AssignedTo  *string
	Subtasks    []SubtaskInput
}

// UpdateTaskInput carries a partial update. Nil means the field was
// absent from the request and is left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	DueDate     *string
	CategoryID  *uint
	AssignedTo  *string
	Subtasks    *[]SubtaskInput
}

// ExportRow is one line of the CSV export.
type ExportRow struct {
	ID          uint
	Title       string
	Description string
	Priority    string
	DueDate     *models.Date
	Status      string
	AssignedTo  *string
	Category    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var sortColumns = map[string]string{
	"due_date":   "tasks.due_date ASC",
	"created_at": "tasks.created_at ASC",
	"title":      "tasks.title ASC",
}

// Priority is ordered High, Medium, Low, not lexicographically.
const prioritySort = "CASE tasks.priority WHEN 'High' THEN 1 WHEN 'Medium' THEN 2 WHEN 'Low' THEN 3 END ASC"

// ListTasks assembles the filtered, sorted, paginated task listing. The
// total count is computed before pagination; unknown sort values fall
// back to created_at.
func ListTasks(gdb *gorm.DB, f TaskFilter) (*TaskPage, error) {
	q := gdb.Model(&models.Task{})

	if f.Status != "" {
		q = q.Where("tasks.status = ?", f.Status)
	}
	if f.CategoryID != "" {
		id, _ := strconv.Atoi(f.CategoryID)
		q = q.Where("tasks.category_id = ?", id)
	}
	if f.Priority != "" {
		q = q.Where("tasks.priority = ?", f.Priority)
	}
	if f.AssignedTo != "" {
		q = q.Where("tasks.assigned_to LIKE ?", "%"+f.AssignedTo+"%")
	}
	if f.Search != "" {
		term := "%" + f.Search + "%"
		q = q.Where("(tasks.title LIKE ? OR tasks.description LIKE ?)", term, term)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count tasks")
	}

	order, ok := sortColumns[f.Sort]
	if !ok {
		order = sortColumns["created_at"]
	}
	if f.Sort == "priority" {
		order = prioritySort
	}

	page, perPage, offset := validate.PageParams(f.Page, f.PerPage)

	tasks := []TaskSummary{}
	err := q.
		Select("tasks.*, categories.name AS category_name, categories.color AS category_color").
		Joins("LEFT JOIN categories ON categories.id = tasks.category_id").
		Order(order).
		Limit(perPage).
		Offset(offset).
		Scan(&tasks).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}

	if err := fillSubtaskCounts(gdb, tasks); err != nil {
		return nil, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}

	return &TaskPage{
		Tasks: tasks,
		Pagination: Pagination{
			Total:      int(total),
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
		},
	}, nil
}

func fillSubtaskCounts(gdb *gorm.DB, tasks []TaskSummary) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}

	var counts []struct {
		TaskID    uint
		Total     int
		Completed int
	}
	err := gdb.Model(&models.Subtask{}).
		Select("task_id, COUNT(*) AS total, SUM(CASE WHEN is_done THEN 1 ELSE 0 END) AS completed").
		Where("task_id IN ?", ids).
		Group("task_id").
		Scan(&counts).Error
	if err != nil {
		return errors.Wrap(err, "failed to count subtasks")
	}

	byTask := make(map[uint][2]int, len(counts))
	for _, c := range counts {
		byTask[c.TaskID] = [2]int{c.Total, c.Completed}
	}
	for i := range tasks {
		c := byTask[tasks[i].ID]
		tasks[i].SubtasksTotal = c[0]
		tasks[i].SubtasksCompleted = c[1]
	}
	return nil
}

// GetTask assembles a task with its category, subtasks (oldest first) and
// comments (newest first).
func GetTask(gdb *gorm.DB, id uint) (*TaskDetail, error) {
	var detail TaskDetail
	err := gdb.Model(&models.Task{}).
		Select("tasks.*, categories.name AS category_name, categories.color AS category_color").
		Joins("LEFT JOIN categories ON categories.id = tasks.category_id").
		Where("tasks.id = ?", id).
		Scan(&detail).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch task")
	}
	if detail.ID == 0 {
		return nil, ErrNotFound
	}

	detail.Subtasks = []models.Subtask{}
	err = gdb.Where("task_id = ?", id).Order("created_at ASC, id ASC").Find(&detail.Subtasks).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch subtasks")
	}

	detail.Comments = []models.Comment{}
	err = gdb.Where("task_id = ?", id).Order("created_at DESC, id DESC").Find(&detail.Comments).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch comments")
	}

	return &detail, nil
}

// CreateTask inserts the task, its non-blank subtasks and the created
// activity entry in one transaction. A failure of any part rolls back
// all of them; a partially created task is never observable.
func CreateTask(gdb *gorm.DB, in CreateTaskInput) (uint, error) {
	var taskID uint
	err := gdb.Transaction(func(tx *gorm.DB) error {
		task := models.Task{
			Title:       in.Title,
			Description: in.Description,
			Priority:    in.Priority,
			Status:      in.Status,
			DueDate:     in.DueDate,
			CategoryID:  in.CategoryID,
			AssignedTo:  in.AssignedTo,
		}
		if err := tx.Create(&task).Error; err != nil {
			return errors.Wrap(err, "failed to create task")
		}

		for _, st := range in.Subtasks {
			title := strings.TrimSpace(st.Title)
			if title == "" {
				continue
			}
			sub := models.Subtask{TaskID: task.ID, Title: title}
			if err := tx.Create(&sub).Error; err != nil {
				return errors.Wrap(err, "failed to create subtask")
			}
		}

		if err := LogActivity(tx, task.ID, models.ActionCreated, "Task created: "+in.Title, ""); err != nil {
			return err
		}
		taskID = task.ID
		return nil
	})
	return taskID, err
}

// UpdateTask applies a partial update inside one transaction. Only fields
// whose normalized value differs from the stored one are written and
// described; a subtasks payload replaces the whole set unconditionally.
// Exactly one activity entry summarizes all changes; none is written when
// nothing changed.
func UpdateTask(gdb *gorm.DB, id uint, in UpdateTaskInput) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var existing models.Task
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "failed to fetch task")
		}

		updates := map[string]interface{}{}
		var changes []string

		if in.Title != nil && *in.Title != existing.Title {
			updates["title"] = *in.Title
			changes = append(changes, "Title changed to: "+*in.Title)
		}
		if in.Description != nil && *in.Description != existing.Description {
			updates["description"] = *in.Description
			changes = append(changes, "Description updated")
		}
		// Invalid priority/status values in an update are ignored, not coerced.
		if in.Priority != nil && validate.IsPriority(*in.Priority) && *in.Priority != existing.Priority {
			updates["priority"] = *in.Priority
			changes = append(changes, "Priority changed to: "+*in.Priority)
		}
		if in.Status != nil && validate.IsStatus(*in.Status) && *in.Status != existing.Status {
			updates["status"] = *in.Status
			changes = append(changes, "Status changed to: "+*in.Status)
		}
		if in.CategoryID != nil {
			var next *uint
			if *in.CategoryID != 0 {
				v := *in.CategoryID
				next = &v
			}
			if !uintPtrEqual(next, existing.CategoryID) {
				updates["category_id"] = next
				if next != nil {
					changes = append(changes, "Category changed")
				} else {
					changes = append(changes, "Category removed")
				}
			}
		}
		if in.AssignedTo != nil {
			var next *string
			if *in.AssignedTo != "" {
				v := *in.AssignedTo
				next = &v
			}
			if !stringPtrEqual(next, existing.AssignedTo) {
				updates["assigned_to"] = next
				if next != nil {
					changes = append(changes, "Assigned to: "+*next)
				} else {
					changes = append(changes, "Assignment removed")
				}
			}
		}
		if in.DueDate != nil {
			var next *models.Date
			if *in.DueDate != "" && validate.IsDate(*in.DueDate) {
				v := models.Date(*in.DueDate)
				next = &v
			}
			if !datePtrEqual(next, existing.DueDate) {
				updates["due_date"] = next
				if next != nil {
					changes = append(changes, "Due date set to: "+next.String())
				} else {
					changes = append(changes, "Due date removed")
				}
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return errors.Wrap(err, "failed to update task")
			}
		}

		if in.Subtasks != nil {
			// Unconditional replace, not a diff: subtask ids are not
			// preserved across an update that includes a subtasks payload.
			if err := tx.Where("task_id = ?", id).Delete(&models.Subtask{}).Error; err != nil {
				return errors.Wrap(err, "failed to clear subtasks")
			}
			for _, st := range *in.Subtasks {
				title := strings.TrimSpace(st.Title)
				if title == "" {
					continue
				}
				sub := models.Subtask{TaskID: id, Title: title, IsDone: st.IsDone}
				if err := tx.Create(&sub).Error; err != nil {
					return errors.Wrap(err, "failed to create subtask")
				}
			}
			changes = append(changes, "Subtasks updated")
		}

		if len(changes) > 0 {
			return LogActivity(tx, id, models.ActionUpdated, strings.Join(changes, "; "), "")
		}
		return nil
	})
}

// DeleteTask removes the task; subtasks, comments and activity entries go
// with it through the cascade. The deleted entry is written first and is
// itself removed by that cascade, so delete history never survives the
// task. Kept as the historical behavior; see DESIGN.md.
func DeleteTask(gdb *gorm.DB, id uint) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "failed to fetch task")
		}

		if err := LogActivity(tx, id, models.ActionDeleted, "Task deleted: "+task.Title, ""); err != nil {
			return err
		}
		return errors.Wrap(tx.Delete(&models.Task{}, id).Error, "failed to delete task")
	})
}

// MoveTask is the status-only update used by the board. The caller has
// already validated the status; any current status may move to any other.
func MoveTask(gdb *gorm.DB, id uint, status string) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "failed to fetch task")
		}

		if err := tx.Model(&models.Task{}).Where("id = ?", id).Update("status", status).Error; err != nil {
			return errors.Wrap(err, "failed to move task")
		}

		details := fmt.Sprintf("Task moved from %s to %s", models.StatusLabels[task.Status], models.StatusLabels[status])
		return LogActivity(tx, id, models.ActionMoved, details, "")
	})
}

// ExportTasks returns every task with its category name, newest first.
func ExportTasks(gdb *gorm.DB) ([]ExportRow, error) {
	rows := []ExportRow{}
	err := gdb.Model(&models.Task{}).
		Select("tasks.id, tasks.title, tasks.description, tasks.priority, tasks.due_date, tasks.status, tasks.assigned_to, categories.name AS category, tasks.created_at, tasks.updated_at").
		Joins("LEFT JOIN categories ON categories.id = tasks.category_id").
		Order("tasks.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to export tasks")
	}
	return rows, nil
}

func uintPtrEqual(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func datePtrEqual(a, b *models.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
