// Package credentials implements registration and login on top of the user
// store. Password hashes never leave this package.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/todo-backend/internal/auth"
	"github.com/example/todo-backend/internal/domain"
	"github.com/example/todo-backend/internal/store"
)

var (
	ErrAlreadyExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError wraps field-level failures from register input.
type ValidationError struct {
	Err error
}

func (e ValidationError) Error() string { return fmt.Sprintf("invalid input: %v", e.Err) }
func (e ValidationError) Unwrap() error { return e.Err }

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
	Name     string `json:"name" validate:"required,max=128"`
}

type Service struct {
	Users    store.UserStore
	validate *validator.Validate

	// Swappable in tests to observe that the slow paths are skipped.
	hash    func(string) (string, error)
	compare func(hash, password string) error
}

func New(users store.UserStore) *Service {
	return &Service{
		Users:    users,
		validate: validator.New(),
		hash:     auth.HashPassword,
		compare:  auth.CheckPassword,
	}
}

// Register creates a new account. The existence check runs before any hash
// computation so conflicting attempts stay cheap.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	if err := s.validate.Struct(in); err != nil {
		return domain.User{}, ValidationError{Err: err}
	}

	exists, err := s.Users.UserExists(ctx, in.Username, in.Email)
	if err != nil {
		return domain.User{}, err
	}
	if exists {
		return domain.User{}, ErrAlreadyExists
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	u, err := s.Users.CreateUser(ctx, store.CreateUserParams{
		Username:     in.Username,
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
	})
	if err != nil {
		// A racing registration can still hit the unique constraint.
		if errors.Is(err, store.ErrConflict) {
			return domain.User{}, ErrAlreadyExists
		}
		return domain.User{}, err
	}
	return u, nil
}

// Login verifies the password for a username or email. The hash comparison is
// skipped entirely for unknown identifiers.
func (s *Service) Login(ctx context.Context, usernameOrEmail, password string) (domain.User, error) {
	row, err := s.Users.FindUserByLogin(ctx, strings.TrimSpace(usernameOrEmail))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if s.compare(row.PasswordHash, password) != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	// Only the public fields ever leave this boundary.
	return row.User, nil
}
