package handlers

import (
	"net/http"
	"strings"

	"utilhub/internal/domain"
)

type productsResponse struct {
	Products []domain.Product `json:"products"`
}

// Products lists the active catalog, optionally narrowed by a name search.
func (a *App) Products(w http.ResponseWriter, r *http.Request) {
	var (
		products []domain.Product
		err      error
	)
	if query := strings.TrimSpace(r.URL.Query().Get("query")); query != "" {
		products, err = a.Catalog.SearchByName(r.Context(), query)
	} else {
		products, err = a.Catalog.ListActive(r.Context())
	}
	if err != nil {
		a.Logger.Error().Err(err).Msg("list products failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load products")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	a.json(w, http.StatusOK, productsResponse{Products: products})
}
