package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/taskboard/internal/listing"
	"github.com/nhle/taskboard/internal/model"
)

const taskColumns = "id, title, description, is_completed, created_date, priority"

// CreateTask validates and inserts a new task. ID and CreatedDate are
// assigned here; values set by the caller are ignored.
func (s *SQLiteStore) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	task.CreatedDate = time.Now().UTC()
	task.Priority = model.ParsePriority(string(task.Priority))

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (title, description, is_completed, created_date, priority)
		VALUES (?, ?, ?, ?, ?)`,
		task.Title, task.Description, boolToInt(task.IsCompleted),
		task.CreatedDate, string(task.Priority),
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Task{}, fmt.Errorf("reading new task id: %w", err)
	}
	task.ID = id
	return task, nil
}

// GetTask retrieves a single task by ID.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (model.Task, error) {
	var task model.Task
	err := s.db.GetContext(ctx, &task,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, fmt.Errorf("getting task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("getting task %d: %w", id, err)
	}
	return task, nil
}

// UpdateTask rewrites the editable fields of an existing task.
func (s *SQLiteStore) UpdateTask(ctx context.Context, task model.Task) (model.Task, error) {
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, is_completed = ?, priority = ?
		WHERE id = ?`,
		task.Title, task.Description, boolToInt(task.IsCompleted),
		string(model.ParsePriority(string(task.Priority))),
		task.ID,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("updating task %d: %w", task.ID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return model.Task{}, fmt.Errorf("updating task %d: %w", task.ID, ErrNotFound)
	}
	return s.GetTask(ctx, task.ID)
}

// ToggleComplete flips the completion flag of a task.
func (s *SQLiteStore) ToggleComplete(ctx context.Context, id int64) (model.Task, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET is_completed = 1 - is_completed WHERE id = ?", id)
	if err != nil {
		return model.Task{}, fmt.Errorf("toggling task %d: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return model.Task{}, fmt.Errorf("toggling task %d: %w", id, ErrNotFound)
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task by ID. A missing ID is a no-op.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	return nil
}

// ImportTasks inserts a batch of tasks. Tasks without a CreatedDate get the
// current time; any ID on the input is ignored.
func (s *SQLiteStore) ImportTasks(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO tasks (title, description, is_completed, created_date, priority)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing import statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, t := range tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("importing task %d: %w", i, err)
		}
		created := t.CreatedDate.UTC()
		if t.CreatedDate.IsZero() {
			created = now
		}

		_, err = stmt.ExecContext(ctx,
			t.Title, t.Description, boolToInt(t.IsCompleted),
			created, string(model.ParsePriority(string(t.Priority))),
		)
		if err != nil {
			return fmt.Errorf("importing task %q: %w", t.Title, err)
		}
	}

	return tx.Commit()
}

// Snapshot runs fn inside a single transaction so that a count and the page
// fetched after it observe the same rows.
func (s *SQLiteStore) Snapshot(ctx context.Context, fn func(listing.Reader) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning snapshot: %w", err)
	}
	defer tx.Rollback()

	if err := fn(taskReader{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// taskReader answers listing queries against a DB or an open transaction.
type taskReader struct {
	q sqlx.QueryerContext
}

// CountTasks returns the number of tasks matching q.
func (r taskReader) CountTasks(ctx context.Context, q listing.Query) (int, error) {
	query, args := buildTaskQuery("SELECT COUNT(*)", q)

	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, query, args...); err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return count, nil
}

// FindTasks returns one page of tasks matching q, newest first.
func (r taskReader) FindTasks(
	ctx context.Context,
	q listing.Query,
	limit, offset int,
) ([]model.Task, error) {
	query, args := buildTaskQuery("SELECT "+taskColumns, q)
	query += " ORDER BY created_date DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	tasks := []model.Task{}
	if err := sqlx.SelectContext(ctx, r.q, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	return tasks, nil
}

// buildTaskQuery constructs the SQL query and args for a listing query.
// Count and page queries share it so both apply the same predicate.
func buildTaskQuery(selectClause string, q listing.Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	switch q.Status {
	case listing.StatusActive:
		conditions = append(conditions, "is_completed = 0")
	case listing.StatusCompleted:
		conditions = append(conditions, "is_completed = 1")
	}
	if q.Search != "" {
		conditions = append(conditions,
			"(contains_fold(title, ?) OR contains_fold(description, ?))")
		needle := strings.ToLower(q.Search)
		args = append(args, needle, needle)
	}

	query := selectClause + " FROM tasks"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	return query, args
}
