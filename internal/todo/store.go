// Package todo implements the persistent list manager: plan-gated date
// scheduling over a task store that is either the remote todos table or an
// on-disk fallback, selected by session presence.
package todo

import (
	"context"
	"time"

	"utilhub/internal/domain"
)

// Store is the persistence strategy behind the list manager. Exactly one
// implementation is active per client at a time; switching happens wholesale
// at session-change boundaries, never per call.
type Store interface {
	// List returns every task owned by owner, newest first.
	List(ctx context.Context, owner string) ([]domain.Task, error)
	// AddBatch creates one task per due date sharing the same text.
	// The batch commits atomically or not at all.
	AddBatch(ctx context.Context, owner, text string, dueDates []time.Time) error
	// SetCompleted updates a single task's completion flag.
	SetCompleted(ctx context.Context, owner, taskID string, completed bool) error
	// Delete removes a single task.
	Delete(ctx context.Context, owner, taskID string) error
}
