package listing

import "github.com/nhle/taskboard/internal/model"

// Result is one page of a task listing, ready for presentation.
// It is built fresh for every request and holds no references to storage.
type Result struct {
	Tasks      []model.Task `json:"tasks"`
	PageNumber int          `json:"pageNumber"`
	PageSize   int          `json:"pageSize"`
	TotalItems int          `json:"totalItems"`
	TotalPages int          `json:"totalPages"`

	// Filter and SearchString echo the request verbatim for UI state.
	Filter       string `json:"filter"`
	SearchString string `json:"searchString"`

	PageNumbers []int `json:"pageNumbers"`
}

// HasPreviousPage reports whether a page precedes the current one.
func (r Result) HasPreviousPage() bool { return r.PageNumber > 1 }

// HasNextPage reports whether a page follows the current one.
func (r Result) HasNextPage() bool { return r.PageNumber < r.TotalPages }

// FirstItemIndex is the 1-based position of the first task on the page,
// or 0 when nothing matched.
func (r Result) FirstItemIndex() int {
	if r.TotalItems == 0 {
		return 0
	}
	return Offset(r.PageNumber, r.PageSize) + 1
}

// LastItemIndex is the 1-based position of the last task on the page.
func (r Result) LastItemIndex() int {
	if r.TotalItems == 0 {
		return 0
	}
	start := min(Offset(r.PageNumber, r.PageSize), r.TotalItems)
	return start + min(r.PageSize, r.TotalItems-start)
}
