package listing

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/model"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// sampleTasks builds n tasks created one hour apart, task i at baseTime+i h.
// Tasks whose index is in completed are marked done.
func sampleTasks(n int, completed ...int) []model.Task {
	done := make(map[int]bool, len(completed))
	for _, i := range completed {
		done[i] = true
	}
	tasks := make([]model.Task, n)
	for i := range tasks {
		tasks[i] = model.Task{
			ID:          int64(i + 1),
			Title:       fmt.Sprintf("Task %02d", i+1),
			IsCompleted: done[i],
			CreatedDate: baseTime.Add(time.Duration(i) * time.Hour),
			Priority:    model.PriorityMedium,
		}
	}
	return tasks
}

func ids(tasks []model.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestListTasksFirstPageNewestFirst(t *testing.T) {
	res := ListTasks(sampleTasks(25), "all", "", 1, 5)

	assert.Equal(t, []int64{25, 24, 23, 22, 21}, ids(res.Tasks))
	assert.Equal(t, 25, res.TotalItems)
	assert.Equal(t, 5, res.TotalPages)
	assert.Equal(t, 1, res.PageNumber)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, res.PageNumbers)
	assert.False(t, res.HasPreviousPage())
	assert.True(t, res.HasNextPage())
	assert.Equal(t, 1, res.FirstItemIndex())
	assert.Equal(t, 5, res.LastItemIndex())
}

func TestListTasksCompletedFilter(t *testing.T) {
	all := sampleTasks(25, 0, 3, 6, 9, 12, 15, 18, 21)

	res := ListTasks(all, "completed", "", 1, 5)

	assert.Equal(t, 8, res.TotalItems)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, []int64{22, 19, 16, 13, 10}, ids(res.Tasks))
	assert.Equal(t, []int{1, 2}, res.PageNumbers)

	res = ListTasks(all, "completed", "", 2, 5)
	assert.Equal(t, []int64{7, 4, 1}, ids(res.Tasks))
	assert.Equal(t, 6, res.FirstItemIndex())
	assert.Equal(t, 8, res.LastItemIndex())
}

func TestListTasksClampsPastLastPage(t *testing.T) {
	res := ListTasks(sampleTasks(25), "all", "", 999, 5)

	assert.Equal(t, 5, res.PageNumber)
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, ids(res.Tasks))
	assert.False(t, res.HasNextPage())
}

func TestListTasksNoMatches(t *testing.T) {
	res := ListTasks(sampleTasks(25), "all", "zzz", 3, 5)

	assert.Equal(t, 0, res.TotalItems)
	assert.Equal(t, 0, res.TotalPages)
	assert.Equal(t, 1, res.PageNumber)
	assert.Empty(t, res.Tasks)
	assert.NotNil(t, res.Tasks)
	assert.Equal(t, []int{}, res.PageNumbers)
	assert.Equal(t, 0, res.FirstItemIndex())
	assert.Equal(t, 0, res.LastItemIndex())
}

func TestListTasksEmptyAtHighPage(t *testing.T) {
	res := ListTasks(nil, "all", "", 999, 5)

	assert.Equal(t, 1, res.PageNumber)
	assert.Equal(t, 0, res.TotalPages)
	assert.False(t, res.HasPreviousPage())
	assert.False(t, res.HasNextPage())
}

func TestListTasksHugePageSize(t *testing.T) {
	res := ListTasks(sampleTasks(3), "all", "", 1, math.MaxInt)

	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, []int{1}, res.PageNumbers)
	assert.Len(t, res.Tasks, 3)
	assert.Equal(t, 1, res.FirstItemIndex())
	assert.Equal(t, 3, res.LastItemIndex())
}

func TestListTasksReanchorsWindow(t *testing.T) {
	res := ListTasks(sampleTasks(60), "all", "", 10, 5)

	require.Equal(t, 12, res.TotalPages)
	assert.Equal(t, []int{8, 9, 10, 11, 12}, res.PageNumbers)
}

func TestListTasksEchoesRequestVerbatim(t *testing.T) {
	res := ListTasks(sampleTasks(3), "ACTIVE", "Task", -4, 0)

	assert.Equal(t, "ACTIVE", res.Filter)
	assert.Equal(t, "Task", res.SearchString)
	assert.Equal(t, 1, res.PageNumber)
	assert.Equal(t, DefaultPageSize, res.PageSize)
}

func TestListTasksIsIdempotent(t *testing.T) {
	all := sampleTasks(17, 2, 4)
	first := ListTasks(all, "active", "task", 2, 4)
	second := ListTasks(all, "active", "task", 2, 4)
	assert.Equal(t, first, second)
}

func TestListTasksDoesNotReorderInput(t *testing.T) {
	all := sampleTasks(6)
	ListTasks(all, "all", "", 1, 5)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, ids(all))
}

func TestSortNewestFirstBreaksTiesByID(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, CreatedDate: baseTime},
		{ID: 3, CreatedDate: baseTime},
		{ID: 2, CreatedDate: baseTime.Add(time.Minute)},
	}
	SortNewestFirst(tasks)
	assert.Equal(t, []int64{2, 3, 1}, ids(tasks))
}
