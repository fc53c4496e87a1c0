package handles

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kutbudev/taskboard/internal/events"
)

// heartbeatInterval keeps intermediaries from closing idle connections.
const heartbeatInterval = 30 * time.Second

// StreamUpdates handles GET /stream/updates as server-sent events. Each
// connection holds one hub subscription; when the client goes away the
// request context is cancelled and the subscription is released, so a
// hung consumer never pins a worker.
func (h *Handler) StreamUpdates(c *gin.Context) {
	id, ch := h.hub.Subscribe()
	defer h.hub.Unsubscribe(id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.SSEvent("message", events.Event{Type: events.TypeConnected, Timestamp: time.Now().Unix()})
	c.Writer.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("message", event)
			return true
		case <-ticker.C:
			c.SSEvent("message", events.Event{Type: events.TypeHeartbeat, Timestamp: time.Now().Unix()})
			return true
		}
	})
}
