package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/todo-backend/internal/domain"
)

type PostgresTodoStore struct {
	DB *pgxpool.Pool
}

func (s PostgresTodoStore) CreateTodo(ctx context.Context, userID, text string) (domain.Todo, error) {
	id := uuid.New()
	var t domain.Todo
	q := `
INSERT INTO todos (id, text, user_id)
VALUES ($1, $2, $3)
RETURNING id::text, text, user_id::text, created_at;
`
	err := s.DB.QueryRow(ctx, q, id, text, userID).
		Scan(&t.ID, &t.Text, &t.UserID, &t.CreatedAt)
	if err != nil {
		return domain.Todo{}, err
	}
	return t, nil
}

func (s PostgresTodoStore) ListTodosByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	q := `
SELECT id::text, text, user_id::text, created_at
FROM todos
WHERE user_id = $1
ORDER BY created_at DESC;
`
	rows, err := s.DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []domain.Todo{}
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.Text, &t.UserID, &t.CreatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (s PostgresTodoStore) GetTodoOwner(ctx context.Context, todoID string) (string, error) {
	q := `SELECT user_id::text FROM todos WHERE id = $1;`
	var owner string
	err := s.DB.QueryRow(ctx, q, todoID).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return owner, nil
}

func (s PostgresTodoStore) DeleteTodo(ctx context.Context, todoID, userID string) error {
	q := `DELETE FROM todos WHERE id = $1 AND user_id = $2;`
	ct, err := s.DB.Exec(ctx, q, todoID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// NewTodoID exists so tests and the in-memory store mint ids the same way
// postgres-backed rows do.
func NewTodoID() string { return uuid.NewString() }
