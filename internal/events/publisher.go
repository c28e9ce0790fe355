package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/todo-backend/internal/domain"
)

// TodoPublisher is what the route layer depends on. Implementations must be
// safe to call from request goroutines.
type TodoPublisher interface {
	PublishTodoCreated(todo domain.Todo, userID string)
	PublishTodoDeleted(todoID, userID string)
}

// Publisher publishes todo events to JetStream.
// A nil pointer and the zero value are both safe no-op stubs, so the process
// keeps serving requests while the broker is unreachable.
type Publisher struct {
	js  nats.JetStreamContext
	log *zap.Logger
}

// NewPublisher creates a Publisher over an existing JetStream context.
// Pass js=nil to get a no-op stub (tests, degraded startup).
func NewPublisher(js nats.JetStreamContext, log *zap.Logger) *Publisher {
	return &Publisher{js: js, log: log}
}

func (p *Publisher) PublishTodoCreated(todo domain.Todo, userID string) {
	p.publish(TopicTodoCreated, todo.ID, TodoCreatedEvent{
		Todo:      todo,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	})
}

func (p *Publisher) PublishTodoDeleted(todoID, userID string) {
	p.publish(TopicTodoDeleted, todoID, TodoDeletedEvent{
		TodoID:    todoID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	})
}

// publish sends one keyed message. Failures are logged at Warn and dropped;
// the triggering operation has already committed.
func (p *Publisher) publish(topic, key string, payload any) {
	if p == nil || p.js == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		p.log.Warn("events: marshal failed", zap.String("topic", topic), zap.Error(err))
		return
	}
	msg := &nats.Msg{
		Subject: topic,
		Data:    data,
		Header:  nats.Header{KeyHeader: []string{key}},
	}
	if _, err := p.js.PublishMsgAsync(msg); err != nil {
		p.log.Warn("events: publish failed",
			zap.String("topic", topic), zap.String("key", key), zap.Error(err))
	}
}
