package handles

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/kutbudev/taskboard/internal/db"
	"github.com/kutbudev/taskboard/internal/server/common"
	"github.com/kutbudev/taskboard/pkg/validate"
)

// CreateCategoryRequest is the category create payload.
type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ListCategories handles GET /categories.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := db.ListCategories(h.db)
	if err != nil {
		log.WithError(err).Error("list categories failed")
		common.ServerError(c, "Failed to retrieve categories")
		return
	}
	common.Success(c, categories, "Categories retrieved successfully")
}

// CreateCategory handles POST /categories. An invalid or missing color
// falls back to the default, never errors.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, "Invalid JSON input")
		return
	}

	if missing := validate.MissingFields(map[string]string{"name": req.Name}, "name"); len(missing) > 0 {
		common.BadRequest(c, "Missing required fields: "+missing[0])
		return
	}

	name := validate.Sanitize(req.Name)
	color := validate.NormalizeColor(validate.Sanitize(req.Color))

	category, err := db.CreateCategory(h.db, name, color)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			common.BadRequest(c, "Category name already exists")
			return
		}
		log.WithError(err).Error("create category failed")
		common.ServerError(c, "Failed to create category")
		return
	}
	common.Created(c, category, "Category created successfully")
}

// DeleteCategory handles DELETE /categories/:id. Referencing tasks are
// detached, never deleted.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		common.BadRequest(c, "Invalid category ID")
		return
	}

	if err := db.DeleteCategory(h.db, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			common.NotFound(c, "Category not found")
			return
		}
		log.WithError(err).WithField("category_id", id).Error("delete category failed")
		common.ServerError(c, "Failed to delete category")
		return
	}
	common.Success(c, nil, "Category deleted successfully")
}
