package listing

import (
	"slices"

	"github.com/nhle/taskboard/internal/model"
)

// ListTasks filters, orders, and pages an in-memory task collection.
// It never fails: bad page numbers are clamped, unknown filters mean
// "all", and a non-positive page size uses DefaultPageSize.
func ListTasks(all []model.Task, filter, searchString string, pageNumber, pageSize int) Result {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	keep := BuildFilter(searchString, filter)
	matched := make([]model.Task, 0, len(all))
	for _, t := range all {
		if keep(t) {
			matched = append(matched, t)
		}
	}
	SortNewestFirst(matched)

	page := Paginate(matched, pageNumber, pageSize)

	return Result{
		Tasks:        page.Items,
		PageNumber:   page.PageNumber,
		PageSize:     pageSize,
		TotalItems:   page.TotalItems,
		TotalPages:   page.TotalPages,
		Filter:       filter,
		SearchString: searchString,
		PageNumbers:  PageNumbers(page.PageNumber, page.TotalPages, DefaultMaxPagesToShow),
	}
}

// SortNewestFirst orders tasks by descending CreatedDate, breaking ties by
// descending ID so the order is total.
func SortNewestFirst(tasks []model.Task) {
	slices.SortStableFunc(tasks, func(a, b model.Task) int {
		if c := b.CreatedDate.Compare(a.CreatedDate); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
}
