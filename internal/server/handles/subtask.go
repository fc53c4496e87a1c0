package handles

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/kutbudev/taskboard/internal/db"
	"github.com/kutbudev/taskboard/internal/events"
	"github.com/kutbudev/taskboard/internal/server/common"
	"github.com/kutbudev/taskboard/pkg/validate"
)

// UpdateSubtaskRequest is the subtask update payload; nil fields are absent.
type UpdateSubtaskRequest struct {
	Title  *string `json:"title"`
	IsDone *bool   `json:"is_done"`
}

// UpdateSubtask handles PUT /subtasks/:id.
func (h *Handler) UpdateSubtask(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		common.BadRequest(c, "Invalid subtask ID")
		return
	}

	var req UpdateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, "Invalid JSON input")
		return
	}

	input := db.SubtaskUpdateInput{IsDone: req.IsDone}
	if req.Title != nil {
		title := validate.Sanitize(*req.Title)
		input.Title = &title
	}

	subtask, err := db.UpdateSubtask(h.db, id, input)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			common.NotFound(c, "Subtask not found")
			return
		}
		log.WithError(err).WithField("subtask_id", id).Error("update subtask failed")
		common.ServerError(c, "Failed to update subtask")
		return
	}
	h.hub.Publish(events.TypeSubtaskUpdated, subtask.TaskID)
	common.Success(c, subtask, "Subtask updated successfully")
}

// DeleteSubtask handles DELETE /subtasks/:id.
func (h *Handler) DeleteSubtask(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		common.BadRequest(c, "Invalid subtask ID")
		return
	}

	taskID, err := db.DeleteSubtask(h.db, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			common.NotFound(c, "Subtask not found")
			return
		}
		log.WithError(err).WithField("subtask_id", id).Error("delete subtask failed")
		common.ServerError(c, "Failed to delete subtask")
		return
	}
	h.hub.Publish(events.TypeSubtaskDeleted, taskID)
	common.Success(c, nil, "Subtask deleted successfully")
}
