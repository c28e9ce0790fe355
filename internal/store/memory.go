package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/todo-backend/internal/domain"
)

// InMemoryUserStore is a map-backed UserStore for tests and local runs
// without postgres.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]UserRow // keyed by id
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]UserRow)}
}

func (s *InMemoryUserStore) CreateUser(_ context.Context, p CreateUserParams) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.users {
		if row.User.Username == p.Username || row.User.Email == p.Email {
			return domain.User{}, ErrConflict
		}
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:        uuid.NewString(),
		Username:  p.Username,
		Email:     p.Email,
		Name:      p.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[u.ID] = UserRow{User: u, PasswordHash: p.PasswordHash}
	return u, nil
}

func (s *InMemoryUserStore) UserExists(_ context.Context, username, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.users {
		if row.User.Username == username || row.User.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryUserStore) FindUserByLogin(_ context.Context, login string) (UserRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.users {
		if row.User.Username == login || row.User.Email == login {
			return row, nil
		}
	}
	return UserRow{}, ErrNotFound
}

// InMemoryTodoStore is a map-backed TodoStore for tests.
type InMemoryTodoStore struct {
	mu    sync.RWMutex
	todos map[string]domain.Todo
}

func NewInMemoryTodoStore() *InMemoryTodoStore {
	return &InMemoryTodoStore{todos: make(map[string]domain.Todo)}
}

func (s *InMemoryTodoStore) CreateTodo(_ context.Context, userID, text string) (domain.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := domain.Todo{
		ID:        NewTodoID(),
		Text:      text,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	s.todos[t.ID] = t
	return t, nil
}

func (s *InMemoryTodoStore) ListTodosByUser(_ context.Context, userID string) ([]domain.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Todo{}
	for _, t := range s.todos {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryTodoStore) GetTodoOwner(_ context.Context, todoID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.todos[todoID]
	if !ok {
		return "", ErrNotFound
	}
	return t.UserID, nil
}

func (s *InMemoryTodoStore) DeleteTodo(_ context.Context, todoID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[todoID]
	if !ok || t.UserID != userID {
		return ErrNotFound
	}
	delete(s.todos, todoID)
	return nil
}
