package db

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/kutbudev/taskboard/internal/models"
)

// ListCategories returns all categories ordered by name.
func ListCategories(gdb *gorm.DB) ([]models.Category, error) {
	categories := []models.Category{}
	if err := gdb.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}
	return categories, nil
}

// CreateCategory inserts a category. Name must already be sanitized and
// color normalized. A name collision returns ErrDuplicate.
func CreateCategory(gdb *gorm.DB, name, color string) (*models.Category, error) {
	category := models.Category{Name: name, Color: color}
	if err := gdb.Create(&category).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, errors.Wrap(err, "failed to create category")
	}
	return &category, nil
}

// DeleteCategory removes the category and detaches it from every task
// referencing it; the tasks themselves are never deleted.
func DeleteCategory(gdb *gorm.DB, id uint) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "failed to fetch category")
		}

		// UpdateColumn leaves the tasks' updated_at untouched, matching
		// what a database-level SET NULL would do.
		err := tx.Model(&models.Task{}).
			Where("category_id = ?", id).
			UpdateColumn("category_id", nil).Error
		if err != nil {
			return errors.Wrap(err, "failed to detach category from tasks")
		}

		return errors.Wrap(tx.Delete(&models.Category{}, id).Error, "failed to delete category")
	})
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Fallback for drivers without error translation.
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "duplicate key")
}
