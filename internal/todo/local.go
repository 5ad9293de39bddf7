package todo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"utilhub/internal/domain"
)

// LocalStore is the anonymous fallback: one serialized task list per client
// id, written to disk on every mutation. It stands in for the browser's
// single localStorage key when no session exists.
type LocalStore struct {
	mu       sync.Mutex
	basePath string
}

func NewLocalStore(basePath string) (*LocalStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("todo: local store path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("todo: ensure local store path: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

func (s *LocalStore) List(ctx context.Context, owner string) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(owner)
}

func (s *LocalStore) AddBatch(ctx context.Context, owner, text string, dueDates []time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, err := s.load(owner)
	if err != nil {
		return err
	}
	now := time.Now()
	created := make([]domain.Task, 0, len(dueDates))
	for _, d := range dueDates {
		created = append(created, domain.Task{
			ID:          uuid.NewString(),
			Text:        text,
			IsCompleted: false,
			CreatedAt:   now,
			DueDate:     domain.StartOfDay(d).Format(domain.DueDateLayout),
		})
	}
	// Newest first, matching the remote ordering.
	return s.save(owner, append(created, tasks...))
}

func (s *LocalStore) SetCompleted(ctx context.Context, owner, taskID string, completed bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, err := s.load(owner)
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID == taskID {
			tasks[i].IsCompleted = completed
			return s.save(owner, tasks)
		}
	}
	return domain.ErrNotFound
}

func (s *LocalStore) Delete(ctx context.Context, owner, taskID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, err := s.load(owner)
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID == taskID {
			return s.save(owner, append(tasks[:i:i], tasks[i+1:]...))
		}
	}
	return domain.ErrNotFound
}

func (s *LocalStore) load(owner string) ([]domain.Task, error) {
	path, err := s.fileFor(owner)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("todo: read local list: %w", err)
	}
	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("todo: decode local list: %w", err)
	}
	return tasks, nil
}

func (s *LocalStore) save(owner string, tasks []domain.Task) error {
	path, err := s.fileFor(owner)
	if err != nil {
		return err
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("todo: encode local list: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("todo: write local list: %w", err)
	}
	return nil
}

// fileFor maps a client id onto a file under the base path. Ids are cleaned
// so a hostile client id cannot escape the storage root.
func (s *LocalStore) fileFor(owner string) (string, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return "", errors.New("todo: client id is required")
	}
	cleaned := filepath.Base(filepath.Clean(owner))
	if cleaned == "." || cleaned == ".." || cleaned == string(filepath.Separator) {
		return "", fmt.Errorf("todo: invalid client id %q", owner)
	}
	return filepath.Join(s.basePath, cleaned+".json"), nil
}

var _ Store = (*LocalStore)(nil)
