// Package natsconn provides a shared NATS connection factory with a bounded
// reconnect policy and fail-fast semantics.
package natsconn

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Options configures the NATS connection behaviour.
// Zero values fall back to built-in defaults.
type Options struct {
	URL           string
	Name          string        // client name shown in monitoring
	MaxReconnects int           // default 5
	ReconnectWait time.Duration // default 2s
}

// Connect establishes a NATS connection with the configured retry policy.
// On failure it returns an error so the caller decides whether to fail fast
// or keep running disconnected.
func Connect(opts Options) (*nats.Conn, error) {
	if opts.URL == "" {
		opts.URL = "nats://localhost:4222"
	}
	if opts.MaxReconnects == 0 {
		opts.MaxReconnects = 5
	}
	if opts.ReconnectWait == 0 {
		opts.ReconnectWait = 2 * time.Second
	}

	nc, err := nats.Connect(opts.URL,
		nats.Name(opts.Name),
		nats.MaxReconnects(opts.MaxReconnects),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.RetryOnFailedConnect(false),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s (max_reconnects=%d, wait=%s): %w",
			opts.URL, opts.MaxReconnects, opts.ReconnectWait, err)
	}
	return nc, nil
}
