package handles

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/kutbudev/taskboard/internal/db"
	"github.com/kutbudev/taskboard/internal/events"
	"github.com/kutbudev/taskboard/internal/models"
	"github.com/kutbudev/taskboard/internal/server/common"
	"github.com/kutbudev/taskboard/pkg/validate"
)

// CreateTaskRequest is the create payload. Unknown priority/status values
// are coerced to their defaults rather than rejected.
type CreateTaskRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    string            `json:"priority"`
	Status      string            `json:"status"`
	DueDate     string            `json:"due_date"`
	CategoryID  *uint             `json:"category_id"`
	AssignedTo  *string           `json:"assigned_to"`
	Subtasks    []db.SubtaskInput `json:"subtasks"`
}

// UpdateTaskRequest is the partial update payload; nil fields are absent.
type UpdateTaskRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Priority    *string            `json:"priority"`
	Status      *string            `json:"status"`
	DueDate     *string            `json:"due_date"`
	CategoryID  *uint              `json:"category_id"`
	AssignedTo  *string            `json:"assigned_to"`
	Subtasks    *[]db.SubtaskInput `json:"subtasks"`
}

// MoveTaskRequest is the status-only payload of the move endpoint.
type MoveTaskRequest struct {
	Status *string `json:"status"`
}

// ListTasks handles GET /tasks.
func (h *Handler) ListTasks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(validate.DefaultPerPage)))

	filter := db.TaskFilter{
		Status:     c.Query("status"),
		CategoryID: c.Query("category_id"),
		Priority:   c.Query("priority"),
		AssignedTo: c.Query("assigned_to"),
		Search:     c.Query("search"),
		Sort:       c.Query("sort"),
		Page:       page,
		PerPage:    perPage,
	}

	pageData, err := db.ListTasks(h.db, filter)
	if err != nil {
		log.WithError(err).Error("list tasks failed")
		common.ServerError(c, "Failed to retrieve tasks")
		return
	}
	common.Success(c, pageData, "Tasks retrieved successfully")
}

// GetTask handles GET /tasks/:id.
func (h *Handler) GetTask(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		common.BadRequest(c, "Invalid task ID")
		return
	}

	detail, err := db.GetTask(h.db, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			common.NotFound(c, "Task not found")
			return
		}
		log.WithError(err).WithField("task_id", id).Error("get task failed")
		common.ServerError(c, "Failed to retrieve task")
		return
	}
	common.Success(c, detail, "Task retrieved successfully")
}

// CreateTask handles POST /tasks.
func (h *Handler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, "Invalid JSON input")
		return
	}

	if missing := validate.MissingFields(map[string]string{"title": req.Title}, "title"); len(missing) > 0 {
		common.BadRequest(c, "Missing required fields: "+missing[0])
		return
	}

	var dueDate *models.Date
	if req.DueDate != "" {
		if !validate.IsDate(req.DueDate) {
			common.BadRequest(c, "Invalid due date format. Use YYYY-MM-DD")
			return
		}
		d := models.Date(req.DueDate)
		dueDate = &d
	}

	input := db.CreateTaskInput{
		Title:       validate.Sanitize(req.Title),
		Description: validate.Sanitize(req.Description),
		Priority:    validate.NormalizePriority(req.Priority),
		Status:      validate.NormalizeStatus(req.Status),
		DueDate:     dueDate,
		Subtasks:    req.Subtasks,
	}
	if req.CategoryID != nil && *req.CategoryID > 0 {
		input.CategoryID = req.CategoryID
	}
	if req.AssignedTo != nil {
		assigned := validate.Sanitize(*req.AssignedTo)
		input.AssignedTo = &assigned
	}
	for i := range input.Subtasks {
		input.Subtasks[i].Title = validate.Sanitize(input.Subtasks[i].Title)
	}

	id, err := db.CreateTask(h.db, input)
	if err != nil {
		log.WithError(err).Error("create task failed")
		common.ServerError(c, "Failed to create task")
		return
	}
	h.hub.Publish(events.TypeTaskCreated, id)

	detail, err := db.GetTask(h.db, id)
	if err != nil {
		log.WithError(err).WithField("task_id", id).Error("fetch created task failed")
		common.ServerError(c, "Failed to retrieve task")
		return
	}
	common.Success(c, detail, "Task retrieved successfully")
}

// UpdateTask handles PUT /tasks/:id.
func (h *Handler) UpdateTask(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		common.BadRequest(c, "Invalid task ID")
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, "Invalid JSON input")
		return
	}

	input := db.UpdateTaskInput{
		Priority:   req.Priority,
		Status:     req.Status,
		DueDate:    req.DueDate,
		CategoryID: req.CategoryID,
		Subtasks:   req.Subtasks,
	}
	if req.Title != nil {
		title := validate.Sanitize(*req.Title)
		input.Title = &title
	}
	if req.Description != nil {
		description := validate.Sanitize(*req.Description)
		input.Description = &description
	}
	if req.AssignedTo != nil {
		assigned := validate.Sanitize(*req.AssignedTo)
		input.AssignedTo = &assigned
	}
	if input.Subtasks != nil {
		for i := range *input.Subtasks {
			(*input.Subtasks)[i].Title = validate.Sanitize((*input.Subtasks)[i].Title)
		}
	}

	if err := db.UpdateTask(h.db, id, input); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			common.NotFound(c, "Task not found")
			return
		}
		log.WithError(err).WithField("task_id", id).Error("update task failed")
		common.ServerError(c, "Failed to update task")
		return
	}
	h.hub.Publish(events.TypeTaskUpdated, id)

	detail, err := db.GetTask(h.db, id)
	if err != nil {
		log.WithError(err).WithField("task_id", id).Error("fetch updated task failed")
		common.ServerError(c, "Failed to retrieve task")
		return
	}
	common.Success(c, detail, "Task retrieved successfully")
}

// DeleteTask handles DELETE /tasks/:id.
func (h *Handler) DeleteTask(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		common.BadRequest(c, "Invalid task ID")
		return
	}

	if err := db.DeleteTask(h.db, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			common.NotFound(c, "Task not found")
			return
		}
		log.WithError(err).WithField("task_id", id).Error("delete task failed")
		common.ServerError(c, "Failed to delete task")
		return
	}
	h.hub.Publish(events.TypeTaskDeleted, id)
	common.Success(c, nil, "Task deleted successfully")
}

// MoveTask handles POST /tasks/:id/move, the board's status-only update.
func (h *Handler) MoveTask(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		common.BadRequest(c, "Invalid task ID")
		return
	}

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, "Invalid JSON input")
		return
	}
	if req.Status == nil {
		common.BadRequest(c, "Status is required")
		return
	}
	if !validate.IsStatus(*req.Status) {
		common.BadRequest(c, "Invalid status")
		return
	}

	if err := db.MoveTask(h.db, id, *req.Status); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			common.NotFound(c, "Task not found")
			return
		}
		log.WithError(err).WithField("task_id", id).Error("move task failed")
		common.ServerError(c, "Failed to move task")
		return
	}
	h.hub.Publish(events.TypeTaskMoved, id)
	common.Success(c, gin.H{"id": id, "status": *req.Status}, "Task moved successfully")
}

// csvHeader is the fixed export header row.
var csvHeader = []string{"ID", "Title", "Description", "Priority", "Due Date", "Status", "Assigned To", "Category", "Created At", "Updated At"}

// ExportTasks handles GET /tasks/export.
func (h *Handler) ExportTasks(c *gin.Context) {
	rows, err := db.ExportTasks(h.db)
	if err != nil {
		log.WithError(err).Error("export tasks failed")
		common.ServerError(c, "Failed to export tasks")
		return
	}
	if len(rows) == 0 {
		common.Success(c, gin.H{"content": ""}, "No tasks to export")
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(csvHeader)
	for _, r := range rows {
		_ = w.Write([]string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Title,
			r.Description,
			r.Priority,
			dateOrEmpty(r.DueDate),
			r.Status,
			strOrEmpty(r.AssignedTo),
			strOrEmpty(r.Category),
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	w.Flush()

	filename := "tasks_" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// GetTaskActivity handles GET /tasks/:id/activity.
func (h *Handler) GetTaskActivity(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		common.BadRequest(c, "Invalid task ID")
		return
	}

	entries, err := db.ListActivity(h.db, id)
	if err != nil {
		log.WithError(err).WithField("task_id", id).Error("get task activity failed")
		common.ServerError(c, "Failed to retrieve task activity")
		return
	}
	common.Success(c, entries, "Task activity retrieved successfully")
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateOrEmpty(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
