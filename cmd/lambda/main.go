// Serverless entrypoint: the same router as cmd/todo behind an API Gateway
// proxy. No consumer loop runs here; invocations are request-scoped.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/todo-backend/internal/auth"
	todoevents "github.com/example/todo-backend/internal/events"
	"github.com/example/todo-backend/internal/handlers"
	"github.com/example/todo-backend/internal/platform/config"
	"github.com/example/todo-backend/internal/platform/db"
	"github.com/example/todo-backend/internal/platform/httpserver"
	"github.com/example/todo-backend/internal/platform/logging"
	"github.com/example/todo-backend/internal/platform/natsconn"
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
		log.Fatal("open database", zap.Error(err))
	}

	var publisher *todoevents.Publisher
	nc, err := natsconn.Connect(natsconn.Options{
		URL:           cfg.NATS.URL,
		Name:          cfg.ServiceName,
		MaxReconnects: cfg.NATS.MaxReconnects,
		ReconnectWait: cfg.NATS.ReconnectWait,
	})
	if err != nil {
		log.Warn("nats unavailable, events disabled", zap.Error(err))
		publisher = todoevents.NewPublisher(nil, log)
	} else {
		js, jsErr := nc.JetStream()
		if jsErr != nil {
			log.Warn("jetstream unavailable, events disabled", zap.Error(jsErr))
			js = nil
		}
		publisher = todoevents.NewPublisher(js, log)
	}

	router := chi.NewRouter()
	httpserver.SetupRouter(router, httpserver.RouterConfig{CORSOrigin: cfg.HTTP.CORSOrigin})
	handlers.RegisterRoutes(router, handlers.Deps{
		Credentials: credentials.New(store.PostgresUserStore{DB: pool}),
		Todos:       store.PostgresTodoStore{DB: pool},
		Tokens:      auth.TokenService{Secret: cfg.Auth.JWTSecret, AccessTTL: cfg.Auth.AccessTTL},
		Publisher:   publisher,
	})

	adapter := httpadapter.New(router)
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
