package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"utilhub/internal/domain"
	"utilhub/internal/todo"
)

type addTodosRequest struct {
	Task     string   `json:"task"`
	DueDates []string `json:"due_dates"`
}

type todosResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

// TodosList serves the cached task list, optionally narrowed to one day
// and a completion filter. Day switches never refetch from the backend.
func (a *App) TodosList(w http.ResponseWriter, r *http.Request) {
	owner, store, _, ok := a.taskOwner(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "client_required", "X-Client-ID header is required for anonymous access")
		return
	}
	manager := a.Todos.For(owner, store)

	var (
		tasks []domain.Task
		err   error
	)
	if dueDate := r.URL.Query().Get("due_date"); dueDate != "" {
		day, parseErr := time.Parse(domain.DueDateLayout, dueDate)
		if parseErr != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "due_date must be YYYY-MM-DD")
			return
		}
		filter := domain.ParseStatusFilter(r.URL.Query().Get("filter"))
		tasks, err = manager.Visible(r.Context(), day, filter)
	} else {
		tasks, err = manager.Tasks(r.Context())
	}
	if err != nil {
		a.Logger.Error().Err(err).Str("owner", owner).Msg("list todos failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load tasks")
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	a.json(w, http.StatusOK, todosResponse{Tasks: tasks})
}

// TodosAdd files one task under every requested date. The batch is all or
// nothing: a single date outside the plan window rejects the whole request.
func (a *App) TodosAdd(w http.ResponseWriter, r *http.Request) {
	owner, store, authed, ok := a.taskOwner(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "client_required", "X-Client-ID header is required for anonymous access")
		return
	}
	var req addTodosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	dates := make([]time.Time, 0, len(req.DueDates))
	for _, raw := range req.DueDates {
		day, err := time.Parse(domain.DueDateLayout, raw)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("due date %q must be YYYY-MM-DD", raw))
			return
		}
		dates = append(dates, day)
	}

	plan := domain.PlanFree
	if authed {
		plan = a.planFor(r.Context(), owner)
	}
	manager := a.Todos.For(owner, store)
	if err := manager.AddForDates(r.Context(), req.Task, dates, plan); err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyTask):
			a.error(w, http.StatusBadRequest, "task_required", "task text is required")
		case errors.Is(err, domain.ErrNoDates):
			a.error(w, http.StatusBadRequest, "dates_required", "select at least one date")
		case errors.Is(err, domain.ErrDateOutOfWindow):
			a.error(w, http.StatusForbidden, "upgrade_required", err.Error())
		default:
			a.Logger.Error().Err(err).Str("owner", owner).Msg("add todos failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to add tasks")
		}
		return
	}
	tasks, err := manager.Tasks(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Str("owner", owner).Msg("reload todos failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load tasks")
		return
	}
	a.json(w, http.StatusCreated, todosResponse{Tasks: tasks})
}

func (a *App) TodosToggle(w http.ResponseWriter, r *http.Request) {
	owner, store, _, ok := a.taskOwner(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "client_required", "X-Client-ID header is required for anonymous access")
		return
	}
	taskID := chi.URLParam(r, "id")
	task, err := a.Todos.For(owner, store).Toggle(r.Context(), taskID)
	if err != nil {
		if todo.IsNotFound(err) {
			a.error(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		a.Logger.Error().Err(err).Str("owner", owner).Str("task_id", taskID).Msg("toggle todo failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update task")
		return
	}
	a.json(w, http.StatusOK, task)
}

func (a *App) TodosDelete(w http.ResponseWriter, r *http.Request) {
	owner, store, _, ok := a.taskOwner(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "client_required", "X-Client-ID header is required for anonymous access")
		return
	}
	taskID := chi.URLParam(r, "id")
	if err := a.Todos.For(owner, store).Delete(r.Context(), taskID); err != nil {
		if todo.IsNotFound(err) {
			a.error(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		a.Logger.Error().Err(err).Str("owner", owner).Str("task_id", taskID).Msg("delete todo failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
