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

// CreateCommentRequest is the comment create payload.
type CreateCommentRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// ListComments handles GET /tasks/:id/comments.
func (h *Handler) ListComments(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		common.BadRequest(c, "Invalid task ID")
		return
	}

	comments, err := db.ListComments(h.db, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			common.NotFound(c, "Task not found")
			return
		}
		log.WithError(err).WithField("task_id", id).Error("list comments failed")
		common.ServerError(c, "Failed to retrieve comments")
		return
	}
	common.Success(c, comments, "Comments retrieved successfully")
}

// CreateComment handles POST /tasks/:id/comments.
func (h *Handler) CreateComment(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		common.BadRequest(c, "Invalid task ID")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, "Invalid JSON input")
		return
	}

	if missing := validate.MissingFields(map[string]string{"content": req.Content}, "content"); len(missing) > 0 {
		common.BadRequest(c, "Missing required fields: "+missing[0])
		return
	}

	comment, err := db.CreateComment(h.db, id, validate.Sanitize(req.Author), validate.Sanitize(req.Content))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			common.NotFound(c, "Task not found")
			return
		}
		log.WithError(err).WithField("task_id", id).Error("create comment failed")
		common.ServerError(c, "Failed to create comment")
		return
	}
	h.hub.Publish(events.TypeCommentAdded, id)
	common.Created(c, comment, "Comment created successfully")
}
