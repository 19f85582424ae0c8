// Package testutil holds helpers shared by store-backed tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// BaseTime is the CreatedDate of the first task added by SeedTasks.
var BaseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// NewTestStore opens a migrated in-memory SQLiteStore that is closed when
// the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SeedTasks imports n tasks titled "Task 01".."Task n", created one hour
// apart from BaseTime. On an empty store task i (1-based) gets ID i; the
// indexes listed in completed are marked done.
func SeedTasks(t *testing.T, s store.Store, n int, completed ...int) {
	t.Helper()

	done := make(map[int]bool, len(completed))
	for _, i := range completed {
		done[i] = true
	}
	tasks := make([]model.Task, n)
	for i := range tasks {
		tasks[i] = model.Task{
			Title:       fmt.Sprintf("Task %02d", i+1),
			IsCompleted: done[i+1],
			CreatedDate: BaseTime.Add(time.Duration(i) * time.Hour),
		}
	}
	if err := s.ImportTasks(context.Background(), tasks); err != nil {
		t.Fatalf("seeding %d tasks: %v", n, err)
	}
}
