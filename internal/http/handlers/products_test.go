package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"

	"utilhub/internal/domain"
	"utilhub/internal/sqlinline"
)

func TestProductsListsCatalog(t *testing.T) {
	catalog := []domain.Product{
		{ID: "prod-1", Name: "프로 구독", PlanType: "pro", Price: 9900, DurationMonths: 3, Features: []string{"3-month window"}, IsActive: true},
		{ID: "prod-2", Name: "Free Trial", PlanType: "free", Price: 0, DurationMonths: 1, IsActive: true},
	}
	sql := &StubExecutor{
		QueryFn: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			switch query {
			case sqlinline.QSelectActiveProducts:
				return newProductRows(catalog), nil
			case sqlinline.QSearchProducts:
				if args[0].(string) != "프로" {
					t.Fatalf("search term = %v", args[0])
				}
				return newProductRows(catalog[:1]), nil
			default:
				t.Fatalf("unexpected statement %s", firstLine(query))
				return nil, nil
			}
		},
	}
	app := newTestApp(t, sql)

	w := httptest.NewRecorder()
	app.Products(w, httptest.NewRequest(http.MethodGet, "/v1/products", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp productsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Products) != 2 || resp.Products[0].Name != "프로 구독" {
		t.Fatalf("unexpected products %+v", resp.Products)
	}

	w = httptest.NewRecorder()
	app.Products(w, httptest.NewRequest(http.MethodGet, "/v1/products?query=프로", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d", w.Code)
	}
	resp = productsResponse{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Products) != 1 {
		t.Fatalf("expected one search hit, got %+v", resp.Products)
	}
}
