// Package events is the in-process replacement for the old blocking
// heartbeat stream: mutations publish to a broadcast hub and each stream
// connection holds a cancellable subscription instead of occupying a
// worker in a sleep loop.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types published by the API handlers.
const (
	TypeConnected      = "connected"
	TypeHeartbeat      = "heartbeat"
	TypeTaskCreated    = "task_created"
	TypeTaskUpdated    = "task_updated"
	TypeTaskDeleted    = "task_deleted"
	TypeTaskMoved      = "task_moved"
	TypeSubtaskUpdated = "subtask_updated"
	TypeSubtaskDeleted = "subtask_deleted"
	TypeCommentAdded   = "comment_added"
)

// subscriberBuffer bounds how far a slow consumer may lag before events
// are dropped for it.
const subscriberBuffer = 16

// Event is a single board update notification.
type Event struct {
	Type      string `json:"type"`
	TaskID    uint   `json:"task_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Hub fans events out to all current subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]chan Event
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]chan Event)}
}

// Subscribe registers a new consumer and returns its id and channel. The
// caller must Unsubscribe with the same id when done.
func (h *Hub) Subscribe() (uuid.UUID, <-chan Event) {
	id := uuid.New()
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	return id, ch
}

// Unsubscribe removes the consumer and closes its channel.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish delivers the event to every subscriber without blocking; a
// subscriber whose buffer is full misses the event.
func (h *Hub) Publish(eventType string, taskID uint) {
	e := Event{Type: eventType, TaskID: taskID, Timestamp: time.Now().Unix()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
