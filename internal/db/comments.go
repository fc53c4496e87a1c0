package db

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/kutbudev/taskboard/internal/models"
)

// ListComments returns a task's comments, newest first.
func ListComments(gdb *gorm.DB, taskID uint) ([]models.Comment, error) {
	if err := taskExists(gdb, taskID); err != nil {
		return nil, err
	}
	comments := []models.Comment{}
	err := gdb.Where("task_id = ?", taskID).Order("created_at DESC, id DESC").Find(&comments).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list comments")
	}
	return comments, nil
}

// CreateComment appends an immutable comment and the comment_added
// activity entry in one transaction. Author defaults to Anonymous.
func CreateComment(gdb *gorm.DB, taskID uint, author, content string) (*models.Comment, error) {
	if author == "" {
		author = "Anonymous"
	}
	comment := models.Comment{TaskID: taskID, Author: author, Content: content}
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := taskExists(tx, taskID); err != nil {
			return err
		}
		if err := tx.Create(&comment).Error; err != nil {
			return errors.Wrap(err, "failed to create comment")
		}
		return LogActivity(tx, taskID, models.ActionCommentAdded, "Comment added by "+author, "")
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func taskExists(gdb *gorm.DB, taskID uint) error {
	var count int64
	if err := gdb.Model(&models.Task{}).Where("id = ?", taskID).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to check task")
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
