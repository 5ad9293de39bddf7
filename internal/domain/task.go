package domain

import "time"

// DueDateLayout is the day-granularity key a task is filed under.
const DueDateLayout = "2006-01-02"

// Task is a single dated to-do entry.
type Task struct {
	ID          string    `json:"id"`
	Text        string    `json:"task"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	DueDate     string    `json:"due_date"`
}

// StatusFilter narrows a task list by completion state.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterActive    StatusFilter = "active"
	FilterCompleted StatusFilter = "completed"
)

// ParseStatusFilter maps user input to a filter, defaulting to all.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(s) {
	case FilterActive, FilterCompleted:
		return StatusFilter(s)
	}
	return FilterAll
}

// Matches reports whether the task passes the completion filter.
func (f StatusFilter) Matches(t Task) bool {
	switch f {
	case FilterActive:
		return !t.IsCompleted
	case FilterCompleted:
		return t.IsCompleted
	}
	return true
}
