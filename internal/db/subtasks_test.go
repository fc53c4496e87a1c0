package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kutbudev/taskboard/internal/models"
)

func TestUpdateSubtaskToggleDone(t *testing.T) {
	gdb := newTestDB(t)
	taskID := mustCreateTask(t, gdb, CreateTaskInput{
		Title:    "Parent",
		Subtasks: []SubtaskInput{{Title: "step"}},
	})
	detail, err := GetTask(gdb, taskID)
	require.NoError(t, err)
	subID := detail.Subtasks[0].ID

	updated, err := UpdateSubtask(gdb, subID, SubtaskUpdateInput{IsDone: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsDone)

	entries, err := ListActivity(gdb, taskID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionSubtaskUpdated, entries[0].Action)
	assert.Equal(t, "Subtask 'step': Marked as completed", entries[0].Details)

	updated, err = UpdateSubtask(gdb, subID, SubtaskUpdateInput{IsDone: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsDone)

	entries, err = ListActivity(gdb, taskID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Subtask 'step': Marked as incomplete", entries[0].Details)
}

func TestUpdateSubtaskTitleCarriesOldTitle(t *testing.T) {
	gdb := newTestDB(t)
	taskID := mustCreateTask(t, gdb, CreateTaskInput{
		Title:    "Parent",
		Subtasks: []SubtaskInput{{Title: "before"}},
	})
	detail, err := GetTask(gdb, taskID)
	require.NoError(t, err)

	updated, err := UpdateSubtask(gdb, detail.Subtasks[0].ID, SubtaskUpdateInput{
		Title:  strPtr("after"),
		IsDone: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)

	entries, err := ListActivity(gdb, taskID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// The log names the subtask by its pre-update title.
	assert.Equal(t, "Subtask 'before': Title updated; Marked as completed", entries[0].Details)
}

func TestUpdateSubtaskNoChangesLogsNothing(t *testing.T) {
	gdb := newTestDB(t)
	taskID := mustCreateTask(t, gdb, CreateTaskInput{
		Title:    "Parent",
		Subtasks: []SubtaskInput{{Title: "step"}},
	})
	detail, err := GetTask(gdb, taskID)
	require.NoError(t, err)

	updated, err := UpdateSubtask(gdb, detail.Subtasks[0].ID, SubtaskUpdateInput{
		Title:  strPtr("step"),
		IsDone: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "step", updated.Title)

	entries, err := ListActivity(gdb, taskID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUpdateSubtaskNotFound(t *testing.T) {
	gdb := newTestDB(t)

	_, err := UpdateSubtask(gdb, 42, SubtaskUpdateInput{IsDone: boolPtr(true)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSubtaskLogsAgainstTask(t *testing.T) {
	gdb := newTestDB(t)
	taskID := mustCreateTask(t, gdb, CreateTaskInput{
		Title:    "Parent",
		Subtasks: []SubtaskInput{{Title: "doomed"}},
	})
	detail, err := GetTask(gdb, taskID)
	require.NoError(t, err)

	owner, err := DeleteSubtask(gdb, detail.Subtasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, taskID, owner)

	detail, err = GetTask(gdb, taskID)
	require.NoError(t, err)
	assert.Empty(t, detail.Subtasks)

	entries, err := ListActivity(gdb, taskID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionSubtaskDeleted, entries[0].Action)
	assert.Equal(t, "Subtask deleted: doomed", entries[0].Details)
}

func TestDeleteSubtaskNotFound(t *testing.T) {
	gdb := newTestDB(t)

	_, err := DeleteSubtask(gdb, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
