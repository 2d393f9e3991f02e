package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/biosecret/go-todo/models"
)

const todoColumns = `id, user_id, title, description, completed, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (models.Todo, error) {
	var todo models.Todo
	err := row.Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Description, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt)
	return todo, err
}

// Todos stores todo items.
type Todos struct {
	db *sql.DB
}

// NewTodos returns a Todos store over db.
func NewTodos(db *sql.DB) *Todos {
	return &Todos{db: db}
}

// List returns the todos of userID, newest first.
func (s *Todos) List(ctx context.Context, userID string) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return todos, nil
}

// Get returns the todo id of userID.
func (s *Todos) Get(ctx context.Context, userID, id string) (models.Todo, error) {
	todo, err := scanTodo(s.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, ErrNotFound
	}
	if err != nil {
		return models.Todo{}, fmt.Errorf("select todo: %w", err)
	}
	return todo, nil
}

// Create inserts todo as is.
func (s *Todos) Create(ctx context.Context, todo models.Todo) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (`+todoColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		todo.ID, todo.UserID, todo.Title, todo.Description, todo.Completed, todo.CreatedAt, todo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of update to the todo id of userID in a
// single statement and returns the stored result.
func (s *Todos) Update(ctx context.Context, userID, id string, update models.TodoUpdate, now time.Time) (models.Todo, error) {
	todo, err := scanTodo(s.db.QueryRowContext(ctx,
		`UPDATE todos
		    SET title = COALESCE($3, title),
		        description = COALESCE($4, description),
		        completed = COALESCE($5, completed),
		        updated_at = $6
		  WHERE id = $1 AND user_id = $2
		RETURNING `+todoColumns,
		id, userID, update.Title, update.Description, update.Completed, now,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, ErrNotFound
	}
	if err != nil {
		return models.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

// Delete removes the todo id of userID.
func (s *Todos) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
