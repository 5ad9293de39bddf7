package todo

import (
	"context"
	"testing"
	"time"

	"utilhub/internal/domain"
)

func TestRegistryReusesManagerPerOwner(t *testing.T) {
	store := &fakeStore{}
	registry := NewRegistry()

	first := registry.For("owner-1", store)
	second := registry.For("owner-1", store)
	if first != second {
		t.Fatalf("same owner should get the same manager")
	}
	if registry.For("owner-2", store) == first {
		t.Fatalf("different owners must not share a manager")
	}
}

func TestRegistrySwitchesBackend(t *testing.T) {
	remote := &fakeStore{}
	local := &fakeStore{}
	registry := NewRegistry()

	manager := registry.For("owner-1", remote)
	manager.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	due := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	if err := manager.AddForDates(context.Background(), "remote task", []time.Time{due}, domain.PlanFree); err != nil {
		t.Fatalf("AddForDates: %v", err)
	}

	switched := registry.For("owner-1", local)
	if switched != manager {
		t.Fatalf("backend switch should keep the manager instance")
	}
	tasks, err := switched.Tasks(context.Background())
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("switched manager should read the new backend, got %d tasks", len(tasks))
	}
	if len(remote.tasks) != 1 {
		t.Fatalf("remote backend should keep its task")
	}
}
