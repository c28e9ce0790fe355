// Package store is the persistence accessor. SQL errors propagate unmodified
// except for the sentinel mappings below.
package store

import (
	"context"
	"errors"

	"github.com/example/todo-backend/internal/domain"
)

var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

type CreateUserParams struct {
	Username     string
	Email        string
	Name         string
	PasswordHash string
}

// UserRow pairs the public user with its password hash for credential checks.
type UserRow struct {
	User         domain.User
	PasswordHash string
}

type UserStore interface {
	CreateUser(ctx context.Context, p CreateUserParams) (domain.User, error)
	// UserExists reports whether a user with the given username or email exists.
	UserExists(ctx context.Context, username, email string) (bool, error)
	// FindUserByLogin matches login against username or email.
	FindUserByLogin(ctx context.Context, login string) (UserRow, error)
}

type TodoStore interface {
	CreateTodo(ctx context.Context, userID, text string) (domain.Todo, error)
	// ListTodosByUser returns the user's todos newest first.
	ListTodosByUser(ctx context.Context, userID string) ([]domain.Todo, error)
	// GetTodoOwner returns ErrNotFound when the todo does not exist.
	GetTodoOwner(ctx context.Context, todoID string) (string, error)
	DeleteTodo(ctx context.Context, todoID, userID string) error
}
