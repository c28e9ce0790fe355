package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const consumerGroup = "todo-workers"

// Consumer pulls todo events from the TODO_EVENTS stream and dispatches them
// by subject. The handlers only log today; they are the extension point for
// future consumers.
type Consumer struct {
	sub       *nats.Subscription
	batchSize int
	maxWait   time.Duration
	log       *zap.Logger
}

// NewConsumer binds a durable pull consumer to the TODO_EVENTS stream.
func NewConsumer(js nats.JetStreamContext, log *zap.Logger) (*Consumer, error) {
	if err := EnsureStream(js); err != nil {
		return nil, err
	}
	sub, err := js.PullSubscribe("todo.>", consumerGroup, nats.BindStream(StreamName))
	if err != nil {
		return nil, err
	}
	return &Consumer{
		sub:       sub,
		batchSize: 100,
		maxWait:   2 * time.Second,
		log:       log,
	}, nil
}

// Run processes messages until ctx is cancelled. One fetch loop; per-subject
// order within the stream is preserved, nothing is ordered globally.
func (c *Consumer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := c.sub.Fetch(c.batchSize, nats.MaxWait(c.maxWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) {
				continue
			}
			c.log.Error("events consumer: fetch", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		for _, msg := range msgs {
			c.Dispatch(msg)
			if err := msg.Ack(); err != nil {
				c.log.Warn("events consumer: ack", zap.Error(err))
			}
		}
	}
}

// Dispatch routes one message to its subject handler.
func (c *Consumer) Dispatch(msg *nats.Msg) {
	switch msg.Subject {
	case TopicTodoCreated:
		var ev TodoCreatedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			c.log.Warn("events consumer: bad todo.created payload", zap.Error(err))
			return
		}
		c.handleTodoCreated(ev)
	case TopicTodoDeleted:
		var ev TodoDeletedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			c.log.Warn("events consumer: bad todo.deleted payload", zap.Error(err))
			return
		}
		c.handleTodoDeleted(ev)
	default:
		c.log.Warn("events consumer: unknown subject", zap.String("subject", msg.Subject))
	}
}

func (c *Consumer) handleTodoCreated(ev TodoCreatedEvent) {
	c.log.Info("todo created",
		zap.String("todo_id", ev.Todo.ID),
		zap.String("user_id", ev.UserID),
		zap.Time("timestamp", ev.Timestamp))
}

func (c *Consumer) handleTodoDeleted(ev TodoDeletedEvent) {
	c.log.Info("todo deleted",
		zap.String("todo_id", ev.TodoID),
		zap.String("user_id", ev.UserID),
		zap.Time("timestamp", ev.Timestamp))
}
