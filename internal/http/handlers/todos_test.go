package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"utilhub/internal/domain"
	"utilhub/internal/middleware"
	"utilhub/internal/sqlinline"
)

func withClientID(r *http.Request) *http.Request {
	r.Header.Set(clientIDHeader, "browser-1")
	return r
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeTasks(t *testing.T, w *httptest.ResponseRecorder) []domain.Task {
	t.Helper()
	var resp todosResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode tasks: %v", err)
	}
	return resp.Tasks
}

func TestTodosRequireClientID(t *testing.T) {
	app := newTestApp(t, &StubExecutor{})
	w := httptest.NewRecorder()
	app.TodosList(w, httptest.NewRequest(http.MethodGet, "/v1/todos", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "client_required") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestTodosAnonymousLifecycle(t *testing.T) {
	app := newTestApp(t, &StubExecutor{})
	today := time.Now().Format(domain.DueDateLayout)
	tomorrow := time.Now().AddDate(0, 0, 1).Format(domain.DueDateLayout)

	body := fmt.Sprintf(`{"task":"water the plants","due_dates":[%q,%q]}`, today, tomorrow)
	w := httptest.NewRecorder()
	app.TodosAdd(w, withClientID(httptest.NewRequest(http.MethodPost, "/v1/todos", strings.NewReader(body))))
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", w.Code, w.Body.String())
	}
	tasks := decodeTasks(t, w)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	// Narrow the view to today's active tasks.
	w = httptest.NewRecorder()
	app.TodosList(w, withClientID(httptest.NewRequest(http.MethodGet, "/v1/todos?due_date="+today+"&filter=active", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	visible := decodeTasks(t, w)
	if len(visible) != 1 || visible[0].DueDate != today {
		t.Fatalf("unexpected visible tasks %+v", visible)
	}

	// Toggle it done, then it leaves the active view.
	w = httptest.NewRecorder()
	toggle := withURLParam(withClientID(httptest.NewRequest(http.MethodPatch, "/v1/todos/"+visible[0].ID+"/toggle", nil)), "id", visible[0].ID)
	app.TodosToggle(w, toggle)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status = %d, body %s", w.Code, w.Body.String())
	}
	w = httptest.NewRecorder()
	app.TodosList(w, withClientID(httptest.NewRequest(http.MethodGet, "/v1/todos?due_date="+today+"&filter=active", nil)))
	if got := decodeTasks(t, w); len(got) != 0 {
		t.Fatalf("completed task still visible: %+v", got)
	}

	// Delete and verify the full list shrinks.
	w = httptest.NewRecorder()
	del := withURLParam(withClientID(httptest.NewRequest(http.MethodDelete, "/v1/todos/"+visible[0].ID, nil)), "id", visible[0].ID)
	app.TodosDelete(w, del)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = httptest.NewRecorder()
	app.TodosList(w, withClientID(httptest.NewRequest(http.MethodGet, "/v1/todos", nil)))
	if got := decodeTasks(t, w); len(got) != 1 {
		t.Fatalf("expected 1 remaining task, got %d", len(got))
	}
}

func TestTodosToggleVanishedRowIs404(t *testing.T) {
	sql := &StubExecutor{
		QueryFn: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return newTaskRows([]domain.Task{{ID: "task-1", Text: "ship it"}}), nil
		},
		ExecFn: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			if query != sqlinline.QUpdateTodoCompleted {
				t.Fatalf("unexpected statement %s", firstLine(query))
			}
			return pgconn.CommandTag{}, pgx.ErrNoRows
		},
	}
	app := newTestApp(t, sql)

	r := httptest.NewRequest(http.MethodPatch, "/v1/todos/task-1/toggle", nil)
	r = r.WithContext(middleware.ContextWithUserID(r.Context(), "user-1"))
	r = withURLParam(r, "id", "task-1")
	w := httptest.NewRecorder()
	app.TodosToggle(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "not_found") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestTodosAnonymousWindowIsOneMonth(t *testing.T) {
	app := newTestApp(t, &StubExecutor{})
	farOut := time.Now().AddDate(0, 2, 0).Format(domain.DueDateLayout)

	body := fmt.Sprintf(`{"task":"plan ahead","due_dates":[%q]}`, farOut)
	w := httptest.NewRecorder()
	app.TodosAdd(w, withClientID(httptest.NewRequest(http.MethodPost, "/v1/todos", strings.NewReader(body))))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "upgrade_required") {
		t.Fatalf("body = %s", w.Body.String())
	}

	// The whole batch is rejected, nothing was stored.
	w = httptest.NewRecorder()
	app.TodosList(w, withClientID(httptest.NewRequest(http.MethodGet, "/v1/todos", nil)))
	if got := decodeTasks(t, w); len(got) != 0 {
		t.Fatalf("rejected batch left tasks behind: %+v", got)
	}
}

func TestTodosRejectBadDate(t *testing.T) {
	app := newTestApp(t, &StubExecutor{})
	w := httptest.NewRecorder()
	app.TodosAdd(w, withClientID(httptest.NewRequest(http.MethodPost, "/v1/todos",
		strings.NewReader(`{"task":"x","due_dates":["15-03-2024"]}`))))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestTodosAuthedUseRemoteStoreWithPlan(t *testing.T) {
	var inserted bool
	farOut := time.Now().AddDate(0, 2, 0)
	sql := &StubExecutor{
		QueryRowFn: func(ctx context.Context, query string, args ...any) pgx.Row {
			if query != sqlinline.QSelectPlanByID {
				t.Fatalf("unexpected statement %s", firstLine(query))
			}
			return NewSimpleRow(func(dest ...any) error {
				*dest[0].(*string) = "pro"
				return nil
			})
		},
		ExecFn: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			if query != sqlinline.QInsertTodosForDates {
				t.Fatalf("unexpected statement %s", firstLine(query))
			}
			if args[0].(string) != "user-1" {
				t.Fatalf("owner = %v", args[0])
			}
			inserted = true
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
		QueryFn: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return newTaskRows(nil), nil
		},
	}
	app := newTestApp(t, sql)

	// A two-months-out date is inside the pro window.
	body := fmt.Sprintf(`{"task":"quarterly report","due_dates":[%q]}`, farOut.Format(domain.DueDateLayout))
	r := httptest.NewRequest(http.MethodPost, "/v1/todos", strings.NewReader(body))
	r = r.WithContext(middleware.ContextWithUserID(r.Context(), "user-1"))
	w := httptest.NewRecorder()
	app.TodosAdd(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !inserted {
		t.Fatalf("the batch never reached the database store")
	}
}
