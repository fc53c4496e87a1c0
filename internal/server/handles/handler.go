// Package handles contains the gin handlers for the task board API.
package handles

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kutbudev/taskboard/internal/events"
)

// Handler carries the dependencies shared by all endpoints.
type Handler struct {
	db  *gorm.DB
	hub *events.Hub
}

// New creates a Handler.
func New(db *gorm.DB, hub *events.Hub) *Handler {
	return &Handler{db: db, hub: hub}
}

// parseID parses a positive numeric path parameter; 0 means invalid.
func parseID(c *gin.Context) uint {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0
	}
	return uint(id)
}
