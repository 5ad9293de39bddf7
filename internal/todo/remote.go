package todo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"utilhub/internal/domain"
	"utilhub/internal/infra"
	"utilhub/internal/sqlinline"
)

// RemoteStore persists tasks in the todos table for authenticated users.
type RemoteStore struct {
	SQL infra.SQLExecutor
}

func NewRemoteStore(sql infra.SQLExecutor) *RemoteStore {
	return &RemoteStore{SQL: sql}
}

func (s *RemoteStore) List(ctx context.Context, owner string) ([]domain.Task, error) {
	rows, err := s.SQL.Query(ctx, sqlinline.QSelectTodosByUser, owner)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()
	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Text, &t.IsCompleted, &t.DueDate, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return tasks, nil
}

func (s *RemoteStore) AddBatch(ctx context.Context, owner, text string, dueDates []time.Time) error {
	days := make([]time.Time, len(dueDates))
	for i, d := range dueDates {
		days[i] = domain.StartOfDay(d)
	}
	if _, err := s.SQL.Exec(ctx, sqlinline.QInsertTodosForDates, owner, text, days); err != nil {
		return fmt.Errorf("insert todos: %w", err)
	}
	return nil
}

func (s *RemoteStore) SetCompleted(ctx context.Context, owner, taskID string, completed bool) error {
	tag, err := s.SQL.Exec(ctx, sqlinline.QUpdateTodoCompleted, taskID, owner, completed)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *RemoteStore) Delete(ctx context.Context, owner, taskID string) error {
	tag, err := s.SQL.Exec(ctx, sqlinline.QDeleteTodo, taskID, owner)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IsNotFound reports whether err means the row vanished remotely; handlers
// map it to a 404 regardless of which store produced it.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}

var _ Store = (*RemoteStore)(nil)
