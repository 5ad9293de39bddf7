package handlers

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"utilhub/internal/catalog"
	"utilhub/internal/chat"
	"utilhub/internal/domain"
	"utilhub/internal/infra"
	"utilhub/internal/todo"
)

// taskRows iterates canned task rows the way the todos listing query
// returns them.
type taskRows struct {
	TestRowsBase
	tasks []domain.Task
	idx   int
}

func newTaskRows(tasks []domain.Task) *taskRows {
	return &taskRows{tasks: tasks, idx: -1}
}

func (r *taskRows) Close()     {}
func (r *taskRows) Err() error { return nil }

func (r *taskRows) Next() bool {
	r.idx++
	return r.idx < len(r.tasks)
}

func (r *taskRows) Scan(dest ...any) error {
	t := r.tasks[r.idx]
	*dest[0].(*string) = t.ID
	*dest[1].(*string) = t.Text
	*dest[2].(*bool) = t.IsCompleted
	*dest[3].(*string) = t.DueDate
	*dest[4].(*time.Time) = t.CreatedAt
	return nil
}

// productRows iterates canned catalog rows.
type productRows struct {
	TestRowsBase
	products []domain.Product
	idx      int
}

func newProductRows(products []domain.Product) *productRows {
	return &productRows{products: products, idx: -1}
}

func (r *productRows) Close()     {}
func (r *productRows) Err() error { return nil }

func (r *productRows) Next() bool {
	r.idx++
	return r.idx < len(r.products)
}

func (r *productRows) Scan(dest ...any) error {
	p := r.products[r.idx]
	*dest[0].(*string) = p.ID
	*dest[1].(*string) = p.Name
	*dest[2].(*string) = p.PlanType
	*dest[3].(*int64) = p.Price
	*dest[4].(*int) = p.DurationMonths
	*dest[5].(*string) = p.Description
	*dest[6].(*[]string) = p.Features
	*dest[7].(*bool) = p.IsActive
	return nil
}

func newTestApp(t *testing.T, sql infra.SQLExecutor) *App {
	t.Helper()
	local, err := todo.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	catalogStore := catalog.NewStore(sql)
	hub := chat.NewHub()
	return &App{
		SQL:    sql,
		Logger: zerolog.Nop(),
		Cfg: infra.Config{
			JWTSecret:       "test-secret",
			DefaultLocale:   "ko",
			PublicBaseURL:   "http://localhost:8080",
			ProfileTimeout:  200 * time.Millisecond,
			PlanFlipTimeout: 200 * time.Millisecond,
		},
		Catalog: catalogStore,
		Chat:    chat.NewService(nil, sql, chat.NewDispatcher(catalogStore), hub, zerolog.Nop()),
		Hub:     hub,
		Todos:   todo.NewRegistry(),
		Remote:  todo.NewRemoteStore(sql),
		Local:   local,
	}
}
