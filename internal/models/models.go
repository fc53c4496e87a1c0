package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Task priorities as stored in the database.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Task statuses as stored in the database.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Activity log actions.
const (
	ActionCreated        = "created"
	ActionUpdated        = "updated"
	ActionDeleted        = "deleted"
	ActionMoved          = "moved"
	ActionSubtaskUpdated = "subtask_updated"
	ActionSubtaskDeleted = "subtask_deleted"
	ActionCommentAdded   = "comment_added"
)

// DefaultCategoryColor is used when a category is created without a valid color.
const DefaultCategoryColor = "#3B82F6"

// StatusLabels maps stored status values to their display names.
var StatusLabels = map[string]string{
	StatusTodo:       "To Do",
	StatusInProgress: "In Progress",
	StatusDone:       "Done",
}

// Date is a calendar day bound to a DATE column. Postgres hands dates
// back as time.Time while sqlite returns the stored text; Scan
// normalizes both to YYYY-MM-DD so the wire format never depends on the
// driver.
type Date string

func (d Date) String() string { return string(d) }

// Value validates the format and writes the date as text; the database
// casts it for the DATE column.
func (d Date) Value() (driver.Value, error) {
	if _, err := time.Parse("2006-01-02", string(d)); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", string(d), err)
	}
	return string(d), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = ""
		return nil
	case time.Time:
		*d = Date(v.Format("2006-01-02"))
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("unsupported date value %T", value)
	}
}

func (d *Date) scanString(s string) error {
	// Timestamp-shaped text carries the day in its first ten bytes.
	if len(s) > 10 {
		s = s[:10]
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*d = Date(s)
	return nil
}

// GormDataType binds Date fields to DATE columns.
func (Date) GormDataType() string { return "date" }

// Category is a named, colored label optionally attached to tasks.
// Deleting a category detaches it from tasks instead of deleting them.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex"`
	Color     string    `json:"color" gorm:"not null;type:varchar(7)"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// Task is the primary work item tracked through todo/in_progress/done.
type Task struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Priority    string    `json:"priority" gorm:"not null;type:varchar(10);default:Medium"`
	Status      string    `json:"status" gorm:"not null;type:varchar(20);default:todo"`
	DueDate     *Date     `json:"due_date" gorm:"type:date"`
	CategoryID  *uint     `json:"category_id" gorm:"index"`
	AssignedTo  *string   `json:"assigned_to"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	// Relations
	Category   *Category     `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Subtasks   []Subtask     `json:"-" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Comments   []Comment     `json:"-" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Activities []ActivityLog `json:"-" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

// Subtask is a checklist item owned by exactly one task.
type Subtask struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskID    uint      `json:"task_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	IsDone    bool      `json:"is_done" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// Comment is immutable once created; there is no update operation.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskID    uint      `json:"task_id" gorm:"not null;index"`
	Author    string    `json:"author" gorm:"not null;default:Anonymous"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// ActivityLog is an append-only audit record of a change to a task.
// Rows are removed only by the cascade when their task is deleted.
type ActivityLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskID    uint      `json:"task_id" gorm:"not null;index"`
	Action    string    `json:"action" gorm:"not null;type:varchar(32)"`
	Details   string    `json:"details"`
	UserName  string    `json:"user_name" gorm:"not null;default:System"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName keeps the historical singular table name.
func (ActivityLog) TableName() string {
	return "activity_log"
}
