package store

import (
	"context"
	"errors"

	"github.com/nhle/taskboard/internal/listing"
	"github.com/nhle/taskboard/internal/model"
)

// ErrNotFound is returned when a task ID does not exist.
var ErrNotFound = errors.New("task not found")

// Store defines the persistence interface for tasks. Listings go through
// the embedded listing.Source so that counting and paging share a snapshot.
type Store interface {
	listing.Source

	// CreateTask validates and inserts a task, assigning its ID and
	// CreatedDate. The stored record is returned.
	CreateTask(ctx context.Context, task model.Task) (model.Task, error)

	// GetTask returns ErrNotFound when id does not exist.
	GetTask(ctx context.Context, id int64) (model.Task, error)

	// UpdateTask rewrites title, description, priority, and completion.
	// CreatedDate is never modified.
	UpdateTask(ctx context.Context, task model.Task) (model.Task, error)

	// ToggleComplete flips the completion flag and returns the new state.
	ToggleComplete(ctx context.Context, id int64) (model.Task, error)

	// DeleteTask removes a task. Deleting a missing ID is not an error.
	DeleteTask(ctx context.Context, id int64) error

	// ImportTasks inserts a batch of tasks in one transaction, keeping any
	// CreatedDate already set on them.
	ImportTasks(ctx context.Context, tasks []model.Task) error
}
