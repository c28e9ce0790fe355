package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/todo-backend/internal/auth"
	"github.com/example/todo-backend/internal/domain"
	"github.com/example/todo-backend/internal/service/credentials"
	"github.com/example/todo-backend/internal/store"
)

// recordingPublisher captures publishes so tests can assert on the exact
// event traffic a request produced.
type recordingPublisher struct {
	mu      sync.Mutex
	created []publishedEvent
	deleted []publishedEvent
}

type publishedEvent struct {
	Key    string
	UserID string
	Todo   domain.Todo
}

func (p *recordingPublisher) PublishTodoCreated(todo domain.Todo, userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, publishedEvent{Key: todo.ID, UserID: userID, Todo: todo})
}

func (p *recordingPublisher) PublishTodoDeleted(todoID, userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, publishedEvent{Key: todoID, UserID: userID})
}

type testEnv struct {
	router chi.Router
	pub    *recordingPublisher
	tokens auth.TokenService
}

func newTestEnv() *testEnv {
	pub := &recordingPublisher{}
	tokens := auth.TokenService{Secret: []byte("test-secret"), AccessTTL: time.Hour}

	r := chi.NewRouter()
	RegisterRoutes(r, Deps{
		Credentials: credentials.New(store.NewInMemoryUserStore()),
		Todos:       store.NewInMemoryTodoStore(),
		Tokens:      tokens,
		Publisher:   pub,
	})
	return &testEnv{router: r, pub: pub, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) registerUser(t *testing.T, username, email string) (domain.User, string) {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "pw",
		"name":     "Test",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("register %s: expected 200, got %d: %s", username, rr.Code, rr.Body.String())
	}
	var resp struct {
		User  domain.User `json:"user"`
		Token string      `json:"token"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp.User, resp.Token
}

func (e *testEnv) createTodo(t *testing.T, token, text string) domain.Todo {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/todos", token, map[string]string{"text": text})
	if rr.Code != http.StatusOK {
		t.Fatalf("create todo: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var todo domain.Todo
	if err := json.NewDecoder(rr.Body).Decode(&todo); err != nil {
		t.Fatalf("decode todo: %v", err)
	}
	return todo
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}
