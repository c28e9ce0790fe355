package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/example/todo-backend/internal/domain"
	"github.com/example/todo-backend/internal/store"
)

func TestCreateTodo_PublishesExactlyOneKeyedEvent(t *testing.T) {
	env := newTestEnv()
	u, token := env.registerUser(t, "u1", "u1@test.com")

	todo := env.createTodo(t, token, "buy milk")
	if todo.Text != "buy milk" || todo.UserID != u.ID {
		t.Fatalf("unexpected todo: %+v", todo)
	}

	if len(env.pub.created) != 1 {
		t.Fatalf("expected exactly one todo.created publish, got %d", len(env.pub.created))
	}
	ev := env.pub.created[0]
	if ev.Key != todo.ID {
		t.Fatalf("expected event keyed by todo id %q, got %q", todo.ID, ev.Key)
	}
	if ev.UserID != u.ID || ev.Todo.ID != todo.ID {
		t.Fatalf("unexpected event payload: %+v", ev)
	}
}

func TestCreateTodo_EmptyText(t *testing.T) {
	env := newTestEnv()
	_, token := env.registerUser(t, "u1", "u1@test.com")

	rr := env.do(t, http.MethodPost, "/todos", token, map[string]string{"text": "  "})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if len(env.pub.created) != 0 {
		t.Fatal("rejected create must not publish")
	}
}

func TestListTodos_IsolatedPerUser(t *testing.T) {
	env := newTestEnv()
	_, tokenA := env.registerUser(t, "a", "a@test.com")
	_, tokenB := env.registerUser(t, "b", "b@test.com")

	created := env.createTodo(t, tokenA, "a's secret")

	rr := env.do(t, http.MethodGet, "/todos", tokenB, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var list []domain.Todo
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, item := range list {
		if item.ID == created.ID {
			t.Fatal("user B can see user A's todo")
		}
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list for user B, got %d items", len(list))
	}
}

func TestListTodos_NewestFirst(t *testing.T) {
	env := newTestEnv()
	_, token := env.registerUser(t, "u1", "u1@test.com")

	env.createTodo(t, token, "first")
	env.createTodo(t, token, "second")

	rr := env.do(t, http.MethodGet, "/todos", token, nil)
	var list []domain.Todo
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(list))
	}
	if list[0].CreatedAt.Before(list[1].CreatedAt) {
		t.Fatal("todos not ordered newest first")
	}
}

func TestDeleteTodo_Owner(t *testing.T) {
	env := newTestEnv()
	u, token := env.registerUser(t, "u1", "u1@test.com")
	todo := env.createTodo(t, token, "buy milk")

	rr := env.do(t, http.MethodDelete, "/todos/"+todo.ID, token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil || !resp.Success {
		t.Fatalf("expected {\"success\":true}, got %s", rr.Body.String())
	}

	if len(env.pub.deleted) != 1 {
		t.Fatalf("expected one todo.deleted publish, got %d", len(env.pub.deleted))
	}
	if ev := env.pub.deleted[0]; ev.Key != todo.ID || ev.UserID != u.ID {
		t.Fatalf("unexpected delete event: %+v", ev)
	}
}

func TestDeleteTodo_Forbidden(t *testing.T) {
	env := newTestEnv()
	_, tokenA := env.registerUser(t, "a", "a@test.com")
	_, tokenB := env.registerUser(t, "b", "b@test.com")
	todo := env.createTodo(t, tokenA, "a's todo")

	rr := env.do(t, http.MethodDelete, "/todos/"+todo.ID, tokenB, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	if msg := decodeError(t, rr); msg != "Not authorized to delete this todo" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if len(env.pub.deleted) != 0 {
		t.Fatal("forbidden delete must not publish")
	}

	// The todo is still there for its owner.
	rr = env.do(t, http.MethodGet, "/todos", tokenA, nil)
	var list []domain.Todo
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil || len(list) != 1 {
		t.Fatalf("owner should still see the todo: %s", rr.Body.String())
	}
}

func TestDeleteTodo_NotFound(t *testing.T) {
	env := newTestEnv()
	_, token := env.registerUser(t, "u1", "u1@test.com")

	for _, id := range []string{store.NewTodoID(), "not-a-uuid"} {
		rr := env.do(t, http.MethodDelete, "/todos/"+id, token, nil)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for %q, got %d", id, rr.Code)
		}
		if msg := decodeError(t, rr); msg != "Todo not found" {
			t.Fatalf("unexpected message: %q", msg)
		}
	}
	if len(env.pub.deleted) != 0 {
		t.Fatal("missed delete must not publish")
	}
}

func TestTodos_RequireAuth(t *testing.T) {
	env := newTestEnv()

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/todos"},
		{http.MethodPost, "/todos"},
		{http.MethodDelete, "/todos/" + store.NewTodoID()},
	}
	for _, p := range paths {
		rr := env.do(t, p.method, p.path, "", nil)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", p.method, p.path, rr.Code)
		}
	}
}

// TestEndToEndScenario is the canonical journey: register, create, list,
// delete, delete again.
func TestEndToEndScenario(t *testing.T) {
	env := newTestEnv()

	_, token := env.registerUser(t, "u1", "u1@test.com")

	todo := env.createTodo(t, token, "buy milk")
	if todo.Text != "buy milk" || todo.ID == "" || todo.UserID == "" {
		t.Fatalf("unexpected todo: %+v", todo)
	}

	rr := env.do(t, http.MethodGet, "/todos", token, nil)
	var list []domain.Todo
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	found := false
	for _, item := range list {
		if item.ID == todo.ID && item.Text == "buy milk" {
			found = true
		}
	}
	if !found {
		t.Fatal("created todo missing from list")
	}

	rr = env.do(t, http.MethodDelete, "/todos/"+todo.ID, token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodDelete, "/todos/"+todo.ID, token, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rr.Code)
	}
	if msg := decodeError(t, rr); msg != "Todo not found" {
		t.Fatalf("second delete: expected 'Todo not found', got %q", msg)
	}
}
