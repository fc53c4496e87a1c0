package db

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/kutbudev/taskboard/internal/models"
)

// ActivityEntry is a single audit record as exposed over the API.
type ActivityEntry struct {
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// LogActivity appends an audit record for the task. userName defaults to
// System when empty. A failed append rolls back the surrounding
// transaction; the audit log and the change it records stay in sync.
func LogActivity(tx *gorm.DB, taskID uint, action, details, userName string) error {
	if userName == "" {
		userName = "System"
	}
	entry := models.ActivityLog{
		TaskID:   taskID,
		Action:   action,
		Details:  details,
		UserName: userName,
	}
	return errors.Wrap(tx.Create(&entry).Error, "failed to log activity")
}

// ListActivity returns the audit records for a task, newest first.
func ListActivity(gdb *gorm.DB, taskID uint) ([]ActivityEntry, error) {
	entries := []ActivityEntry{}
	err := gdb.Model(&models.ActivityLog{}).
		Select("action, details, user_name, created_at").
		Where("task_id = ?", taskID).
		Order("created_at DESC, id DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list activity")
	}
	return entries, nil
}
