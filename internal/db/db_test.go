package db

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kutbudev/taskboard/internal/models"
)

// newTestDB opens an in-memory sqlite database restricted to a single
// connection so every query sees the same store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, Migrate(gdb))
	return gdb
}

func mustCreateTask(t *testing.T, gdb *gorm.DB, in CreateTaskInput) uint {
	t.Helper()
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if in.Status == "" {
		in.Status = models.StatusTodo
	}
	id, err := CreateTask(gdb, in)
	require.NoError(t, err)
	return id
}

func mustCreateCategory(t *testing.T, gdb *gorm.DB, name string) *models.Category {
	t.Helper()
	category, err := CreateCategory(gdb, name, models.DefaultCategoryColor)
	require.NoError(t, err)
	return category
}

func strPtr(s string) *string { return &s }

func datePtr(s string) *models.Date {
	d := models.Date(s)
	return &d
}

func uintPtr(v uint) *uint { return &v }

func boolPtr(v bool) *bool { return &v }
