package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/example/todo-backend/internal/auth"
	"github.com/example/todo-backend/internal/events"
	"github.com/example/todo-backend/internal/service/credentials"
	"github.com/example/todo-backend/internal/store"
)

// Deps carries everything the route layer needs. The publisher is injected
// explicitly; there is no ambient singleton.
type Deps struct {
	Credentials *credentials.Service
	Todos       store.TodoStore
	Tokens      auth.TokenService
	Publisher   events.TodoPublisher
}

// RegisterRoutes mounts the public and token-protected route groups.
func RegisterRoutes(r chi.Router, d Deps) {
	r.Post("/register", Register(d.Credentials, d.Tokens))
	r.Post("/login", Login(d.Credentials, d.Tokens))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireUser(d.Tokens))
		pr.Get("/me", Me())
		pr.Get("/todos", ListTodos(d.Todos))
		pr.Post("/todos", CreateTodo(d.Todos, d.Publisher))
		pr.Delete("/todos/{id}", DeleteTodo(d.Todos, d.Publisher))
	})
}
