package handles

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/kutbudev/taskboard/internal/server/common"
)

// Health handles GET /health; it pings the database.
func (h *Handler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		log.WithError(err).Error("health check failed")
		common.ServerError(c, "Database unavailable")
		return
	}
	common.Success(c, nil, "OK")
}
