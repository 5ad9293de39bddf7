package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrEmptyTask       = errors.New("task text is required")
	ErrNoDates         = errors.New("at least one due date is required")
	ErrDateOutOfWindow = errors.New("due date outside plan window")
	ErrEmptyMessage    = errors.New("message text is required")
	ErrAlreadyPro      = errors.New("plan is already pro")
)
