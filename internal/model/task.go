package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength is the maximum number of characters allowed in a task title.
const MaxTitleLength = 100

// ErrInvalidTask is wrapped by every validation failure returned from Validate.
var ErrInvalidTask = errors.New("invalid task")

// Priority is the importance level of a task.
type Priority string

// Priority levels. Medium is the default for new tasks.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority level from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority resolves a priority name case-insensitively.
// Empty or unknown names resolve to PriorityMedium.
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow
	case PriorityHigh:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// Label returns the capitalized display name of the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityHigh:
		return "High"
	default:
		return "Medium"
	}
}

// Task is a single entry in the task list.
type Task struct {
	// ID is assigned by the store on creation and never reused.
	ID int64 `json:"id" db:"id"`

	// Title is the required summary line.
	Title string `json:"title" db:"title"`

	// Description holds optional details. Nil means no description was given.
	Description *string `json:"description,omitempty" db:"description"`

	// IsCompleted reports whether the task has been marked done.
	IsCompleted bool `json:"isCompleted" db:"is_completed"`

	// CreatedDate is set once by the store and never changes afterwards.
	CreatedDate time.Time `json:"createdDate" db:"created_date"`

	// Priority defaults to PriorityMedium.
	Priority Priority `json:"priority" db:"priority"`
}

// DescriptionText returns the description, or "" when it is absent.
func (t Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// Validate checks the title constraints.
func (t Task) Validate() error {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidTask)
	}
	if n := utf8.RuneCountInString(t.Title); n > MaxTitleLength {
		return fmt.Errorf("%w: title is %d characters, max %d", ErrInvalidTask, n, MaxTitleLength)
	}
	return nil
}

// StringPtr returns a pointer to s, or nil when s is blank.
// Form inputs use it to map an empty description to "absent".
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
