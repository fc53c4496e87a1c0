// Package server wires the HTTP surface of the task board.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kutbudev/taskboard/internal/events"
	"github.com/kutbudev/taskboard/internal/server/common"
	"github.com/kutbudev/taskboard/internal/server/handles"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(gdb *gorm.DB, hub *events.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "X-Requested-With"}
	r.Use(cors.New(corsConfig))

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		common.MethodNotAllowed(c)
	})
	r.NoRoute(func(c *gin.Context) {
		common.NotFound(c, "Endpoint not found")
	})

	h := handles.New(gdb, hub)

	r.GET("/health", h.Health)

	r.GET("/categories", h.ListCategories)
	r.POST("/categories", h.CreateCategory)
	r.DELETE("/categories/:id", h.DeleteCategory)

	r.GET("/tasks", h.ListTasks)
	r.POST("/tasks", h.CreateTask)
	r.GET("/tasks/export", h.ExportTasks)
	r.GET("/tasks/:id", h.GetTask)
	r.PUT("/tasks/:id", h.UpdateTask)
	r.DELETE("/tasks/:id", h.DeleteTask)
	r.POST("/tasks/:id/move", h.MoveTask)
	r.GET("/tasks/:id/activity", h.GetTaskActivity)
	r.GET("/tasks/:id/comments", h.ListComments)
	r.POST("/tasks/:id/comments", h.CreateComment)

	r.PUT("/subtasks/:id", h.UpdateSubtask)
	r.DELETE("/subtasks/:id", h.DeleteSubtask)

	r.GET("/stream/updates", h.StreamUpdates)

	return r
}
