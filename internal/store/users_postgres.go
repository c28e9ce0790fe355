package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/todo-backend/internal/domain"
)

type PostgresUserStore struct {
	DB *pgxpool.Pool
}

func (s PostgresUserStore) CreateUser(ctx context.Context, p CreateUserParams) (domain.User, error) {
	id := uuid.New()
	var u domain.User
	q := `
INSERT INTO users (id, username, email, password_hash, name)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, username, email, name, created_at, updated_at;
`
	err := s.DB.QueryRow(ctx, q, id, p.Username, p.Email, p.PasswordHash, p.Name).
		Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		// unique violation
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s PostgresUserStore) UserExists(ctx context.Context, username, email string) (bool, error) {
	q := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2);`
	var exists bool
	if err := s.DB.QueryRow(ctx, q, username, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s PostgresUserStore) FindUserByLogin(ctx context.Context, login string) (UserRow, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return UserRow{}, ErrNotFound
	}

	q := `
SELECT id::text, username, email, name, password_hash, created_at, updated_at
FROM users
WHERE username = $1 OR email = $1
LIMIT 1;
`
	var row UserRow
	err := s.DB.QueryRow(ctx, q, login).Scan(
		&row.User.ID, &row.User.Username, &row.User.Email, &row.User.Name,
		&row.PasswordHash, &row.User.CreatedAt, &row.User.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRow{}, ErrNotFound
		}
		return UserRow{}, err
	}
	return row, nil
}
