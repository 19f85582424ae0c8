package listing

import "math"

// DefaultPageSize is used when a caller supplies a non-positive page size.
const DefaultPageSize = 5

// Page is one slice of an ordered collection plus its position metadata.
type Page[T any] struct {
	Items      []T
	PageNumber int
	TotalItems int
	TotalPages int
}

// Clamp normalizes a requested page against a collection size.
// pageNumber below 1 becomes 1; above the last page it becomes the last
// page. An empty collection has totalPages 0 and effective page 1.
func Clamp(totalItems, pageNumber, pageSize int) (effective, totalPages int) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if totalItems <= 0 {
		return 1, 0
	}

	// Division first so a huge pageSize cannot overflow.
	totalPages = totalItems / pageSize
	if totalItems%pageSize != 0 {
		totalPages++
	}
	return min(max(pageNumber, 1), totalPages), totalPages
}

// Offset returns the index of the first item on pageNumber. It saturates
// at math.MaxInt instead of overflowing.
func Offset(pageNumber, pageSize int) int {
	if pageNumber <= 1 || pageSize < 1 {
		return 0
	}
	if pageNumber-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (pageNumber - 1) * pageSize
}

// Paginate slices an already filtered and ordered collection.
// The returned Items share the backing array of ordered.
func Paginate[T any](ordered []T, pageNumber, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := len(ordered)
	effective, totalPages := Clamp(total, pageNumber, pageSize)

	start := min(Offset(effective, pageSize), total)
	end := start + min(pageSize, total-start)

	return Page[T]{
		Items:      ordered[start:end],
		PageNumber: effective,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
