package listing

import (
	"strings"

	"github.com/nhle/taskboard/internal/model"
)

// Status selects tasks by completion state.
type Status string

// Status filter values.
const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Statuses lists the filter values in the order a pager cycles through them.
var Statuses = []Status{StatusAll, StatusActive, StatusCompleted}

// ParseStatus normalizes a filter keyword case-insensitively.
// Unrecognized keywords behave as StatusAll.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive
	case StatusCompleted:
		return StatusCompleted
	default:
		return StatusAll
	}
}

// Next returns the status that follows s in Statuses, wrapping around.
func (s Status) Next() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusAll
}

// Query is the normalized form of a search string and status filter.
// Stores translate it into their own predicate language.
type Query struct {
	Search string
	Status Status
}

// NewQuery builds a Query from raw request values.
func NewQuery(search, status string) Query {
	return Query{Search: search, Status: ParseStatus(status)}
}

// Predicate reports whether a task belongs in a listing.
type Predicate func(model.Task) bool

// BuildFilter returns the predicate for a search string and status filter.
// A non-empty search matches title or description case-insensitively; an
// absent description never matches. Search and status are ANDed.
func BuildFilter(search, status string) Predicate {
	return NewQuery(search, status).Predicate()
}

// Predicate returns the in-memory predicate equivalent to q.
func (q Query) Predicate() Predicate {
	needle := strings.ToLower(q.Search)
	status := q.Status

	return func(t model.Task) bool {
		switch status {
		case StatusActive:
			if t.IsCompleted {
				return false
			}
		case StatusCompleted:
			if !t.IsCompleted {
				return false
			}
		}
		if needle == "" {
			return true
		}
		return ContainsFold(t.Title, needle) ||
			(t.Description != nil && ContainsFold(*t.Description, needle))
	}
}

// ContainsFold reports whether needle occurs in s, ignoring case.
// needle must already be lower-cased.
func ContainsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}
