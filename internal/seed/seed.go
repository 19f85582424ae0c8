// Package seed fills an empty store with sample tasks.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/taskboard/internal/listing"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// SampleTasks returns the demo tasks, dated relative to now.
func SampleTasks(now time.Time) []model.Task {
	return []model.Task{
		{
			Title:       "Learn the taskboard API",
			Description: model.StringPtr("Complete the task manager project"),
			CreatedDate: now.AddDate(0, 0, -2),
			Priority:    model.PriorityHigh,
		},
		{
			Title:       "Buy groceries",
			Description: model.StringPtr("Milk, Eggs, Bread"),
			IsCompleted: true,
			CreatedDate: now.AddDate(0, 0, -1),
			Priority:    model.PriorityMedium,
		},
		{
			Title:       "Schedule dentist appointment",
			CreatedDate: now,
			Priority:    model.PriorityLow,
		},
	}
}

// Seed imports SampleTasks when st holds no tasks. It returns the number
// of tasks added.
func Seed(ctx context.Context, st store.Store, now time.Time) (int, error) {
	var count int
	err := st.Snapshot(ctx, func(r listing.Reader) error {
		var err error
		count, err = r.CountTasks(ctx, listing.Query{Status: listing.StatusAll})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("counting existing tasks: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tasks := SampleTasks(now)
	if err := st.ImportTasks(ctx, tasks); err != nil {
		return 0, fmt.Errorf("importing sample tasks: %w", err)
	}
	return len(tasks), nil
}
