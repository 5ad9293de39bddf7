package todo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"utilhub/internal/domain"
)

// Manager owns one client's loaded task set and applies the plan-gated
// scheduling rules on top of whichever Store is active. Adds are
// write-through followed by a re-fetch; toggle and delete apply
// optimistically and roll back the touched item if the store write fails.
type Manager struct {
	mu     sync.Mutex
	store  Store
	owner  string
	tasks  []domain.Task
	loaded bool

	now func() time.Time
}

func NewManager(store Store, owner string) *Manager {
	return &Manager{store: store, owner: owner, now: time.Now}
}

// SwitchStore swaps the persistence backend wholesale, dropping the loaded
// set so the next read comes from the new backend.
func (m *Manager) SwitchStore(store Store, owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = store
	m.owner = owner
	m.tasks = nil
	m.loaded = false
}

// Refresh replaces the loaded set from the store.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshLocked(ctx)
}

func (m *Manager) refreshLocked(ctx context.Context) error {
	tasks, err := m.store.List(ctx, m.owner)
	if err != nil {
		return err
	}
	m.tasks = tasks
	m.loaded = true
	return nil
}

// Tasks returns a copy of the loaded set, fetching it on first use.
func (m *Manager) Tasks(ctx context.Context) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		if err := m.refreshLocked(ctx); err != nil {
			return nil, err
		}
	}
	out := make([]domain.Task, len(m.tasks))
	copy(out, m.tasks)
	return out, nil
}

// Visible filters the loaded set down to one day and one status filter.
// Switching the selected day never refetches; it only changes the predicate.
func (m *Manager) Visible(ctx context.Context, day time.Time, filter domain.StatusFilter) ([]domain.Task, error) {
	tasks, err := m.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	key := domain.StartOfDay(day).Format(domain.DueDateLayout)
	visible := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.DueDate == key && filter.Matches(t) {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

// AddForDates creates one task per date sharing the same text. The whole
// batch is rejected when the text is empty, no dates are given, or any date
// falls outside the plan's window; there are no partial commits.
func (m *Manager) AddForDates(ctx context.Context, text string, dates []time.Time, plan domain.Plan) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.ErrEmptyTask
	}
	if len(dates) == 0 {
		return domain.ErrNoDates
	}
	now := m.now()
	for _, d := range dates {
		if !plan.IsDateAllowed(d, now) {
			return fmt.Errorf("%w: %s", domain.ErrDateOutOfWindow, domain.StartOfDay(d).Format(domain.DueDateLayout))
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.AddBatch(ctx, m.owner, trimmed, dates); err != nil {
		return err
	}
	// Read-after-write, not optimistic merge.
	return m.refreshLocked(ctx)
}

// command captures an optimistic mutation and the pre-state needed to
// reverse it when the store write is rejected.
type command struct {
	apply  func()
	revert func()
}

// Toggle flips a task's completion flag optimistically and reverts exactly
// that item if the store write fails.
func (m *Manager) Toggle(ctx context.Context, taskID string) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		if err := m.refreshLocked(ctx); err != nil {
			return domain.Task{}, err
		}
	}
	idx := m.indexOf(taskID)
	if idx < 0 {
		return domain.Task{}, domain.ErrNotFound
	}

	prev := m.tasks[idx]
	cmd := command{
		apply:  func() { m.tasks[idx].IsCompleted = !prev.IsCompleted },
		revert: func() { m.tasks[idx] = prev },
	}
	cmd.apply()

	if err := m.store.SetCompleted(ctx, m.owner, taskID, !prev.IsCompleted); err != nil {
		cmd.revert()
		return domain.Task{}, err
	}
	return m.tasks[idx], nil
}

// Delete removes a task optimistically and restores it in place if the
// store write fails.
func (m *Manager) Delete(ctx context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		if err := m.refreshLocked(ctx); err != nil {
			return err
		}
	}
	idx := m.indexOf(taskID)
	if idx < 0 {
		return domain.ErrNotFound
	}

	prev := m.tasks[idx]
	cmd := command{
		apply: func() {
			m.tasks = append(m.tasks[:idx:idx], m.tasks[idx+1:]...)
		},
		revert: func() {
			rest := append([]domain.Task{prev}, m.tasks[idx:]...)
			m.tasks = append(m.tasks[:idx], rest...)
		},
	}
	cmd.apply()

	if err := m.store.Delete(ctx, m.owner, taskID); err != nil {
		cmd.revert()
		return err
	}
	return nil
}

func (m *Manager) indexOf(taskID string) int {
	for i := range m.tasks {
		if m.tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}
