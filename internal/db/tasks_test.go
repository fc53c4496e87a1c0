package db

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kutbudev/taskboard/internal/models"
)

func TestCreateTaskSkipsBlankSubtasks(t *testing.T) {
	gdb := newTestDB(t)

	id := mustCreateTask(t, gdb, CreateTaskInput{
		Title: "Ship v1",
		Subtasks: []SubtaskInput{
			{Title: "write docs"},
			{Title: "   "},
			{Title: "cut release"},
			{Title: ""},
		},
	})

	detail, err := GetTask(gdb, id)
	require.NoError(t, err)
	require.Len(t, detail.Subtasks, 2)
	assert.Equal(t, "write docs", detail.Subtasks[0].Title)
	assert.Equal(t, "cut release", detail.Subtasks[1].Title)
	// is_done in a create payload is ignored.
	assert.False(t, detail.Subtasks[0].IsDone)

	entries, err := ListActivity(gdb, id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionCreated, entries[0].Action)
	assert.Equal(t, "Task created: Ship v1", entries[0].Details)
	assert.Equal(t, "System", entries[0].UserName)
}

func TestCreateTaskRollsBackOnConstraintFailure(t *testing.T) {
	gdb := newTestDB(t)

	_, err := CreateTask(gdb, CreateTaskInput{
		Title:      "Orphan",
		Priority:   models.PriorityMedium,
		Status:     models.StatusTodo,
		CategoryID: uintPtr(999),
	})
	require.Error(t, err)

	var tasks, activity int64
	require.NoError(t, gdb.Model(&models.Task{}).Count(&tasks).Error)
	require.NoError(t, gdb.Model(&models.ActivityLog{}).Count(&activity).Error)
	assert.Zero(t, tasks)
	assert.Zero(t, activity)
}

func TestGetTaskAssemblesDetail(t *testing.T) {
	gdb := newTestDB(t)
	category := mustCreateCategory(t, gdb, "Work")

	id := mustCreateTask(t, gdb, CreateTaskInput{
		Title:      "Review PR",
		Priority:   models.PriorityHigh,
		Status:     models.StatusInProgress,
		DueDate:    datePtr("2026-09-15"),
		CategoryID: &category.ID,
		AssignedTo: strPtr("alice"),
		Subtasks:   []SubtaskInput{{Title: "read diff"}, {Title: "leave comments"}},
	})
	_, err := CreateComment(gdb, id, "bob", "first")
	require.NoError(t, err)
	_, err = CreateComment(gdb, id, "carol", "second")
	require.NoError(t, err)

	detail, err := GetTask(gdb, id)
	require.NoError(t, err)
	assert.Equal(t, "Review PR", detail.Title)
	assert.Equal(t, models.PriorityHigh, detail.Priority)
	require.NotNil(t, detail.CategoryName)
	assert.Equal(t, "Work", *detail.CategoryName)
	require.NotNil(t, detail.CategoryColor)
	assert.Equal(t, models.DefaultCategoryColor, *detail.CategoryColor)
	require.NotNil(t, detail.DueDate)
	assert.Equal(t, models.Date("2026-09-15"), *detail.DueDate)

	// Subtasks oldest first, comments newest first.
	require.Len(t, detail.Subtasks, 2)
	assert.Equal(t, "read diff", detail.Subtasks[0].Title)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "second", detail.Comments[0].Content)
}

func TestGetTaskNotFound(t *testing.T) {
	gdb := newTestDB(t)

	_, err := GetTask(gdb, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTaskNoChangesLogsNothing(t *testing.T) {
	gdb := newTestDB(t)
	id := mustCreateTask(t, gdb, CreateTaskInput{Title: "Stable"})

	err := UpdateTask(gdb, id, UpdateTaskInput{
		Title:    strPtr("Stable"),
		Priority: strPtr(models.PriorityMedium),
		Status:   strPtr(models.StatusTodo),
	})
	require.NoError(t, err)

	entries, err := ListActivity(gdb, id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionCreated, entries[0].Action)
}

func TestUpdateTaskChangeMessages(t *testing.T) {
	gdb := newTestDB(t)
	id := mustCreateTask(t, gdb, CreateTaskInput{Title: "Old"})

	err := UpdateTask(gdb, id, UpdateTaskInput{
		Title:    strPtr("New"),
		Priority: strPtr(models.PriorityHigh),
		Status:   strPtr(models.StatusDone),
	})
	require.NoError(t, err)

	entries, err := ListActivity(gdb, id)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionUpdated, entries[0].Action)
	assert.Equal(t, "Title changed to: New; Priority changed to: High; Status changed to: done", entries[0].Details)

	detail, err := GetTask(gdb, id)
	require.NoError(t, err)
	assert.Equal(t, "New", detail.Title)
	assert.Equal(t, models.StatusDone, detail.Status)
}

func TestUpdateTaskInvalidEnumIgnored(t *testing.T) {
	gdb := newTestDB(t)
	id := mustCreateTask(t, gdb, CreateTaskInput{Title: "Keep"})

	err := UpdateTask(gdb, id, UpdateTaskInput{
		Priority: strPtr("urgent"),
		Status:   strPtr("blocked"),
	})
	require.NoError(t, err)

	detail, err := GetTask(gdb, id)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, detail.Priority)
	assert.Equal(t, models.StatusTodo, detail.Status)

	entries, err := ListActivity(gdb, id)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUpdateTaskDueDateSetAndClear(t *testing.T) {
	gdb := newTestDB(t)
	id := mustCreateTask(t, gdb, CreateTaskInput{Title: "Dated"})

	require.NoError(t, UpdateTask(gdb, id, UpdateTaskInput{DueDate: strPtr("2026-10-01")}))
	detail, err := GetTask(gdb, id)
	require.NoError(t, err)
	require.NotNil(t, detail.DueDate)
	assert.Equal(t, models.Date("2026-10-01"), *detail.DueDate)

	// Re-sending the unchanged date is a no-op and logs nothing.
	require.NoError(t, UpdateTask(gdb, id, UpdateTaskInput{DueDate: strPtr("2026-10-01")}))
	entries, err := ListActivity(gdb, id)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NoError(t, UpdateTask(gdb, id, UpdateTaskInput{DueDate: strPtr("")}))
	detail, err = GetTask(gdb, id)
	require.NoError(t, err)
	assert.Nil(t, detail.DueDate)

	entries, err = ListActivity(gdb, id)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Due date removed", entries[0].Details)
	assert.Equal(t, "Due date set to: 2026-10-01", entries[1].Details)
}

func TestUpdateTaskCategoryAndAssignment(t *testing.T) {
	gdb := newTestDB(t)
	category := mustCreateCategory(t, gdb, "Ops")
	id := mustCreateTask(t, gdb, CreateTaskInput{Title: "Rotate keys"})

	err := UpdateTask(gdb, id, UpdateTaskInput{
		CategoryID: &category.ID,
		AssignedTo: strPtr("dave"),
	})
	require.NoError(t, err)

	entries, err := ListActivity(gdb, id)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Category changed; Assigned to: dave", entries[0].Details)

	// Zero category id and empty assignee clear the fields.
	err = UpdateTask(gdb, id, UpdateTaskInput{
		CategoryID: uintPtr(0),
		AssignedTo: strPtr(""),
	})
	require.NoError(t, err)

	detail, err := GetTask(gdb, id)
	require.NoError(t, err)
	assert.Nil(t, detail.CategoryID)
	assert.Nil(t, detail.AssignedTo)

	entries, err = ListActivity(gdb, id)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Category removed; Assignment removed", entries[0].Details)
}

func TestUpdateTaskReplacesSubtasks(t *testing.T) {
	gdb := newTestDB(t)
	id := mustCreateTask(t, gdb, CreateTaskInput{
		Title:    "Rework",
		Subtasks: []SubtaskInput{{Title: "one"}, {Title: "two"}},
	})

	detail, err := GetTask(gdb, id)
	require.NoError(t, err)
	oldIDs := []uint{detail.Subtasks[0].ID, detail.Subtasks[1].ID}

	subtasks := []SubtaskInput{
		{Title: "three", IsDone: true},
		{Title: "  "},
		{Title: "four"},
	}
	require.NoError(t, UpdateTask(gdb, id, UpdateTaskInput{Subtasks: &subtasks}))

	detail, err = GetTask(gdb, id)
	require.NoError(t, err)
	require.Len(t, detail.Subtasks, 2)
	assert.Equal(t, "three", detail.Subtasks[0].Title)
	assert.True(t, detail.Subtasks[0].IsDone)
	assert.NotContains(t, oldIDs, detail.Subtasks[0].ID)

	entries, err := ListActivity(gdb, id)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Subtasks updated", entries[0].Details)

	// A content-identical payload still replaces and still logs.
	same := []SubtaskInput{{Title: "three", IsDone: true}, {Title: "four"}}
	require.NoError(t, UpdateTask(gdb, id, UpdateTaskInput{Subtasks: &same}))

	entries, err = ListActivity(gdb, id)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Subtasks updated", entries[0].Details)
}

func TestUpdateTaskNotFound(t *testing.T) {
	gdb := newTestDB(t)

	err := UpdateTask(gdb, 42, UpdateTaskInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMoveTaskLogsStatusLabels(t *testing.T) {
	gdb := newTestDB(t)
	id := mustCreateTask(t, gdb, CreateTaskInput{Title: "Board", Status: models.StatusDone})

	require.NoError(t, MoveTask(gdb, id, models.StatusTodo))

	detail, err := GetTask(gdb, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTodo, detail.Status)

	entries, err := ListActivity(gdb, id)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionMoved, entries[0].Action)
	assert.Equal(t, "Task moved from Done to To Do", entries[0].Details)
}

func TestMoveTaskNotFound(t *testing.T) {
	gdb := newTestDB(t)

	err := MoveTask(gdb, 42, models.StatusDone)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTaskCascades(t *testing.T) {
	gdb := newTestDB(t)
	id := mustCreateTask(t, gdb, CreateTaskInput{
		Title:    "Doomed",
		Subtasks: []SubtaskInput{{Title: "child"}},
	})
	_, err := CreateComment(gdb, id, "", "gone soon")
	require.NoError(t, err)

	require.NoError(t, DeleteTask(gdb, id))

	_, err = GetTask(gdb, id)
	assert.ErrorIs(t, err, ErrNotFound)

	var subtasks, comments, activity int64
	require.NoError(t, gdb.Model(&models.Subtask{}).Where("task_id = ?", id).Count(&subtasks).Error)
	require.NoError(t, gdb.Model(&models.Comment{}).Where("task_id = ?", id).Count(&comments).Error)
	require.NoError(t, gdb.Model(&models.ActivityLog{}).Where("task_id = ?", id).Count(&activity).Error)
	assert.Zero(t, subtasks)
	assert.Zero(t, comments)
	assert.Zero(t, activity)
}

func TestDeleteTaskNotFound(t *testing.T) {
	gdb := newTestDB(t)

	err := DeleteTask(gdb, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTasksPrioritySort(t *testing.T) {
	gdb := newTestDB(t)
	mustCreateTask(t, gdb, CreateTaskInput{Title: "low", Priority: models.PriorityLow})
	mustCreateTask(t, gdb, CreateTaskInput{Title: "high", Priority: models.PriorityHigh})
	mustCreateTask(t, gdb, CreateTaskInput{Title: "medium", Priority: models.PriorityMedium})

	page, err := ListTasks(gdb, TaskFilter{Sort: "priority", Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 3)
	assert.Equal(t, "high", page.Tasks[0].Title)
	assert.Equal(t, "medium", page.Tasks[1].Title)
	assert.Equal(t, "low", page.Tasks[2].Title)
}

func TestListTasksFilters(t *testing.T) {
	gdb := newTestDB(t)
	category := mustCreateCategory(t, gdb, "Home")
	mustCreateTask(t, gdb, CreateTaskInput{
		Title:      "Fix the sink",
		Status:     models.StatusInProgress,
		CategoryID: &category.ID,
		AssignedTo: strPtr("alice"),
	})
	mustCreateTask(t, gdb, CreateTaskInput{Title: "Write report", Description: "sink cost analysis"})

	page, err := ListTasks(gdb, TaskFilter{Status: models.StatusInProgress, Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "Fix the sink", page.Tasks[0].Title)

	page, err = ListTasks(gdb, TaskFilter{CategoryID: strconv.Itoa(int(category.ID)), Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	require.NotNil(t, page.Tasks[0].CategoryName)
	assert.Equal(t, "Home", *page.Tasks[0].CategoryName)

	page, err = ListTasks(gdb, TaskFilter{AssignedTo: "ali", Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)

	// Search matches title or description.
	page, err = ListTasks(gdb, TaskFilter{Search: "sink", Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Len(t, page.Tasks, 2)

	// Conjunction of filters.
	page, err = ListTasks(gdb, TaskFilter{Search: "sink", Status: models.StatusTodo, Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "Write report", page.Tasks[0].Title)
}

func TestListTasksPagination(t *testing.T) {
	gdb := newTestDB(t)
	for i := 0; i < 5; i++ {
		mustCreateTask(t, gdb, CreateTaskInput{Title: "task " + strconv.Itoa(i)})
	}

	page, err := ListTasks(gdb, TaskFilter{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page.Tasks, 2)
	assert.Equal(t, 5, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 2, page.Pagination.PerPage)
	assert.Equal(t, 3, page.Pagination.TotalPages)

	// per_page is clamped to 100.
	page, err = ListTasks(gdb, TaskFilter{Page: 1, PerPage: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Pagination.PerPage)
	assert.Equal(t, 1, page.Pagination.TotalPages)

	// An empty listing has zero pages.
	require.NoError(t, gdb.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Task{}).Error)
	page, err = ListTasks(gdb, TaskFilter{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Empty(t, page.Tasks)
	assert.Equal(t, 0, page.Pagination.TotalPages)
}

func TestListTasksSubtaskCounts(t *testing.T) {
	gdb := newTestDB(t)
	id := mustCreateTask(t, gdb, CreateTaskInput{
		Title:    "Counted",
		Subtasks: []SubtaskInput{{Title: "a"}, {Title: "b"}, {Title: "c"}},
	})
	detail, err := GetTask(gdb, id)
	require.NoError(t, err)
	_, err = UpdateSubtask(gdb, detail.Subtasks[0].ID, SubtaskUpdateInput{IsDone: boolPtr(true)})
	require.NoError(t, err)

	page, err := ListTasks(gdb, TaskFilter{Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, 3, page.Tasks[0].SubtasksTotal)
	assert.Equal(t, 1, page.Tasks[0].SubtasksCompleted)
}

func TestExportTasks(t *testing.T) {
	gdb := newTestDB(t)
	category := mustCreateCategory(t, gdb, "Work")
	mustCreateTask(t, gdb, CreateTaskInput{Title: "first", CategoryID: &category.ID})
	mustCreateTask(t, gdb, CreateTaskInput{Title: "second"})

	rows, err := ExportTasks(gdb)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		if r.Title == "first" {
			require.NotNil(t, r.Category)
			assert.Equal(t, "Work", *r.Category)
		} else {
			assert.Nil(t, r.Category)
		}
	}
}
