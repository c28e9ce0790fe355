// Package events publishes and consumes todo domain events over NATS
// JetStream. Publishing is fire-and-forget: failures are logged, never
// surfaced, and the database write stays authoritative.
package events

import (
	"errors"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/example/todo-backend/internal/domain"
)

const (
	TopicTodoCreated = "todo.created"
	TopicTodoDeleted = "todo.deleted"

	// StreamName holds both topics; per-subject ordering plus the Event-Key
	// header give same-key ordering for consumers that care.
	StreamName = "TODO_EVENTS"

	// KeyHeader carries the todo id as text on every message.
	KeyHeader = "Event-Key"
)

// TodoCreatedEvent is the envelope published on todo.created.
type TodoCreatedEvent struct {
	Todo      domain.Todo `json:"todo"`
	UserID    string      `json:"userId"`
	Timestamp time.Time   `json:"timestamp"`
}

// TodoDeletedEvent is the envelope published on todo.deleted.
type TodoDeletedEvent struct {
	TodoID    string    `json:"todoId"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// EnsureStream creates the TODO_EVENTS stream if missing, or widens its
// subject set when an older definition is found.
func EnsureStream(js nats.JetStreamContext) error {
	cfg := &nats.StreamConfig{
		Name:     StreamName,
		Subjects: []string{"todo.>"},
		Storage:  nats.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	}

	info, err := js.StreamInfo(StreamName)
	if err == nil {
		for _, s := range info.Config.Subjects {
			if s == "todo.>" {
				return nil
			}
		}
		updated := info.Config
		updated.Subjects = []string{"todo.>"}
		_, err = js.UpdateStream(&updated)
		return err
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return err
	}
	_, err = js.AddStream(cfg)
	return err
}
