package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/five82/taskdeck/internal/todos"
)

const schema = `CREATE TABLE IF NOT EXISTS todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	is_completed BOOLEAN NOT NULL DEFAULT 0
)`

// SQLiteRepository stores todos in a SQLite database file.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (s *SQLiteRepository) List(ctx context.Context) ([]todos.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, is_completed FROM todos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	out := []todos.Task{}
	for rows.Next() {
		var t todos.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return out, nil
}

func (s *SQLiteRepository) Get(ctx context.Context, id int64) (todos.Task, error) {
	var t todos.Task
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, is_completed FROM todos WHERE id = ?`, id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return todos.Task{}, ErrNotFound
	}
	if err != nil {
		return todos.Task{}, fmt.Errorf("get todo %d: %w", id, err)
	}
	return t, nil
}

func (s *SQLiteRepository) Create(ctx context.Context, task todos.NewTask) (todos.Task, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (title, description, is_completed) VALUES (?, ?, ?)`,
		task.Title, task.Description, task.IsCompleted)
	if err != nil {
		return todos.Task{}, fmt.Errorf("insert todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return todos.Task{}, fmt.Errorf("insert todo: %w", err)
	}
	return todos.Task{ID: id, Title: task.Title, Description: task.Description, IsCompleted: task.IsCompleted}, nil
}

func (s *SQLiteRepository) Update(ctx context.Context, id int64, patch Patch) (todos.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return todos.Task{}, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var t todos.Task
	err = tx.QueryRowContext(ctx,
		`SELECT id, title, description, is_completed FROM todos WHERE id = ?`, id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return todos.Task{}, ErrNotFound
	}
	if err != nil {
		return todos.Task{}, fmt.Errorf("get todo %d: %w", id, err)
	}

	patch.apply(&t)
	if _, err := tx.ExecContext(ctx,
		`UPDATE todos SET title = ?, description = ?, is_completed = ? WHERE id = ?`,
		t.Title, t.Description, t.IsCompleted, id); err != nil {
		return todos.Task{}, fmt.Errorf("update todo %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return todos.Task{}, fmt.Errorf("commit update: %w", err)
	}
	return t, nil
}

func (s *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteRepository) Close() error {
	return s.db.Close()
}
