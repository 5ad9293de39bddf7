package credentials

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeSQL struct {
	tokens map[string]string
}

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

func (f *fakeSQL) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if f.tokens == nil {
		f.tokens = map[string]string{}
	}
	f.tokens[args[0].(string)] = args[1].(string)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeSQL) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	token, ok := f.tokens[args[0].(string)]
	if !ok {
		return fakeRow{}
	}
	return fakeRow{scan: func(dest ...any) error {
		*dest[0].(*string) = token
		return nil
	}}
}

func (f *fakeSQL) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func TestTokenRoundTrip(t *testing.T) {
	store := NewStore(&fakeSQL{})

	got, err := store.Token(context.Background(), ProviderOpenAI)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if got != "" {
		t.Fatalf("missing token should read as empty, got %q", got)
	}

	if err := store.SetToken(context.Background(), ProviderOpenAI, "  sk-abc  "); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	got, err = store.Token(context.Background(), ProviderOpenAI)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if got != "sk-abc" {
		t.Fatalf("token = %q", got)
	}
}

func TestSetTokenRejectsEmpty(t *testing.T) {
	store := NewStore(&fakeSQL{})
	if err := store.SetToken(context.Background(), ProviderToss, "   "); err == nil {
		t.Fatalf("expected an error for an empty token")
	}
}
