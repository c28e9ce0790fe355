package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/todo-backend/internal/auth"
	"github.com/example/todo-backend/internal/events"
	"github.com/example/todo-backend/internal/handlers"
	"github.com/example/todo-backend/internal/platform/config"
	"github.com/example/todo-backend/internal/platform/db"
	"github.com/example/todo-backend/internal/platform/httpserver"
	"github.com/example/todo-backend/internal/platform/logging"
	"github.com/example/todo-backend/internal/platform/natsconn"
	"github.com/example/todo-backend/internal/platform/run"
	"github.com/example/todo-backend/internal/service/credentials"
	"github.com/example/todo-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	pool, err := db.Open(context.Background(), cfg.Postgres.DSN())
	if err != nil {
		log.Error("open database", zap.Error(err))
		run.Exit(1)
	}
	defer pool.Close()

	// The broker is best-effort: a failed connect leaves the process serving
	// requests with a no-op publisher and no consumer loop.
	var (
		nc       *nats.Conn
		js       nats.JetStreamContext
		consumer *events.Consumer
	)
	nc, err = natsconn.Connect(natsconn.Options{
		URL:           cfg.NATS.URL,
		Name:          cfg.ServiceName,
		MaxReconnects: cfg.NATS.MaxReconnects,
		ReconnectWait: cfg.NATS.ReconnectWait,
	})
	if err != nil {
		log.Warn("nats unavailable, events disabled", zap.Error(err))
	} else {
		defer nc.Drain() //nolint:errcheck
		js, err = nc.JetStream()
		if err != nil {
			log.Warn("jetstream unavailable, events disabled", zap.Error(err))
			js = nil
		} else if err := events.EnsureStream(js); err != nil {
			log.Warn("ensure stream failed, events disabled", zap.Error(err))
			js = nil
		}
	}

	publisher := events.NewPublisher(js, log)
	if js != nil {
		consumer, err = events.NewConsumer(js, log)
		if err != nil {
			log.Warn("consumer setup failed, continuing without it", zap.Error(err))
			consumer = nil
		}
	}

	tokens := auth.TokenService{Secret: cfg.Auth.JWTSecret, AccessTTL: cfg.Auth.AccessTTL}

	router := chi.NewRouter()
	httpserver.SetupRouter(router, httpserver.RouterConfig{
		CORSOrigin: cfg.HTTP.CORSOrigin,
		ReadyFunc:  func() error { return pool.Ping(context.Background()) },
	})
	handlers.RegisterRoutes(router, handlers.Deps{
		Credentials: credentials.New(store.PostgresUserStore{DB: pool}),
		Todos:       store.PostgresTodoStore{DB: pool},
		Tokens:      tokens,
		Publisher:   publisher,
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, Router: router})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		if consumer != nil {
			go consumer.Run(ctx)
		}
		return srv.Start(log)
	})
	runner.Graceful(srv.Shutdown)
	run.Exit(code)
}
