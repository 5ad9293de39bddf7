package handlers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SimpleRow adapts a scan callback to pgx.Row for handler tests.
type SimpleRow struct {
	scan func(dest ...any) error
}

func NewSimpleRow(scanner func(dest ...any) error) SimpleRow {
	return SimpleRow{scan: scanner}
}

func (r SimpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// TestRowsBase supplies the pgx.Rows methods a row iterator fake does not
// care about.
type TestRowsBase struct{}

func (TestRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (TestRowsBase) Conn() *pgx.Conn { return nil }

func (TestRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (TestRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (TestRowsBase) RawValues() [][]byte { return nil }

// StubExecutor routes statements to per-test callbacks keyed on the query
// text. Statements without a callback fail loudly.
type StubExecutor struct {
	ExecFn     func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRowFn func(ctx context.Context, query string, args ...any) pgx.Row
	QueryFn    func(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

func (s *StubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if s.ExecFn == nil {
		return pgconn.CommandTag{}, fmt.Errorf("unexpected exec: %s", firstLine(query))
	}
	return s.ExecFn(ctx, query, args...)
}

func (s *StubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if s.QueryRowFn == nil {
		return NewSimpleRow(func(...any) error { return fmt.Errorf("unexpected query_row: %s", firstLine(query)) })
	}
	return s.QueryRowFn(ctx, query, args...)
}

func (s *StubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if s.QueryFn == nil {
		return nil, fmt.Errorf("unexpected query: %s", firstLine(query))
	}
	return s.QueryFn(ctx, query, args...)
}

func firstLine(query string) string {
	for i := 0; i < len(query); i++ {
		if query[i] == '\n' {
			return query[:i]
		}
	}
	return query
}
