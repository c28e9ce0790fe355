package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/example/todo-backend/internal/auth"
	"github.com/example/todo-backend/internal/events"
	"github.com/example/todo-backend/internal/platform/api"
	"github.com/example/todo-backend/internal/store"
)

type createTodoRequest struct {
	Text string `json:"text"`
}

type deleteTodoResponse struct {
	Success bool `json:"success"`
}

// ListTodos handles GET /todos — the caller's todos, newest first.
func ListTodos(todos store.TodoStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "Invalid credentials")
			return
		}

		list, err := todos.ListTodosByUser(r.Context(), identity.ID)
		if err != nil {
			api.Internal(w)
			return
		}
		api.WriteJSON(w, http.StatusOK, list)
	}
}

// CreateTodo handles POST /todos. The todo.created event fires after the
// insert commits; the response never depends on the publish outcome.
func CreateTodo(todos store.TodoStore, pub events.TodoPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "Invalid credentials")
			return
		}

		var req createTodoRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			api.BadRequest(w, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			api.BadRequest(w, "text is required")
			return
		}

		todo, err := todos.CreateTodo(r.Context(), identity.ID, req.Text)
		if err != nil {
			api.Internal(w)
			return
		}

		pub.PublishTodoCreated(todo, identity.ID)
		api.WriteJSON(w, http.StatusOK, todo)
	}
}

// DeleteTodo handles DELETE /todos/{id}. Ownership is checked before the
// delete; only a committed delete publishes todo.deleted.
func DeleteTodo(todos store.TodoStore, pub events.TodoPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "Invalid credentials")
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if _, err := uuid.Parse(id); err != nil {
			api.NotFound(w, "Todo not found")
			return
		}

		owner, err := todos.GetTodoOwner(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "Todo not found")
				return
			}
			api.Internal(w)
			return
		}
		if owner != identity.ID {
			api.Forbidden(w, "Not authorized to delete this todo")
			return
		}

		if err := todos.DeleteTodo(r.Context(), id, identity.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "Todo not found")
				return
			}
			api.Internal(w)
			return
		}

		pub.PublishTodoDeleted(id, identity.ID)
		api.WriteJSON(w, http.StatusOK, deleteTodoResponse{Success: true})
	}
}
