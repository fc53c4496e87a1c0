package db

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/kutbudev/taskboard/internal/models"
)

// SubtaskUpdateInput carries a partial subtask update; nil fields were
// absent from the request.
type SubtaskUpdateInput struct {
	Title  *string
	IsDone *bool
}

// UpdateSubtask toggles is_done and/or replaces the title. Only
// actually-different values are written and described; when nothing
// differs, no database write happens and nothing is logged.
func UpdateSubtask(gdb *gorm.DB, id uint, in SubtaskUpdateInput) (*models.Subtask, error) {
	var subtask models.Subtask
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&subtask, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "failed to fetch subtask")
		}

		updates := map[string]interface{}{}
		var changes []string

		if in.Title != nil && *in.Title != subtask.Title {
			updates["title"] = *in.Title
			changes = append(changes, "Title updated")
		}
		if in.IsDone != nil && *in.IsDone != subtask.IsDone {
			updates["is_done"] = *in.IsDone
			if *in.IsDone {
				changes = append(changes, "Marked as completed")
			} else {
				changes = append(changes, "Marked as incomplete")
			}
		}

		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.Subtask{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "failed to update subtask")
		}

		// The log message carries the title as it was before this update.
		details := "Subtask '" + subtask.Title + "': " + strings.Join(changes, "; ")
		if err := LogActivity(tx, subtask.TaskID, models.ActionSubtaskUpdated, details, ""); err != nil {
			return err
		}

		if v, ok := updates["title"]; ok {
			subtask.Title = v.(string)
		}
		if v, ok := updates["is_done"]; ok {
			subtask.IsDone = v.(bool)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &subtask, nil
}

// DeleteSubtask removes the row and logs the deletion against the owning
// task, carrying the subtask's title at time of deletion. It returns the
// owning task's id.
func DeleteSubtask(gdb *gorm.DB, id uint) (uint, error) {
	var taskID uint
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var subtask models.Subtask
		if err := tx.First(&subtask, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "failed to fetch subtask")
		}

		if err := tx.Delete(&models.Subtask{}, id).Error; err != nil {
			return errors.Wrap(err, "failed to delete subtask")
		}
		taskID = subtask.TaskID
		return LogActivity(tx, subtask.TaskID, models.ActionSubtaskDeleted, "Subtask deleted: "+subtask.Title, "")
	})
	return taskID, err
}
