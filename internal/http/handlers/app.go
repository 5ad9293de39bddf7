// Package handlers holds the HTTP endpoints. Handlers hang off App, which
// carries the shared dependencies so tests can swap them for fakes.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"utilhub/internal/catalog"
	"utilhub/internal/chat"
	"utilhub/internal/domain"
	"utilhub/internal/infra"
	"utilhub/internal/middleware"
	"utilhub/internal/payment"
	"utilhub/internal/sqlinline"
	"utilhub/internal/todo"
)

const clientIDHeader = "X-Client-ID"

type App struct {
	SQL     infra.SQLExecutor
	Logger  zerolog.Logger
	Cfg     infra.Config
	Catalog *catalog.Store
	Chat    *chat.Service
	Hub     *chat.Hub
	Toss    *payment.Client
	Todos   *todo.Registry
	Remote  todo.Store
	Local   todo.Store
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": errCode, "message": message},
	})
}

// taskOwner resolves whose task list a request operates on. Signed-in users
// get the shared database store under their user id; anonymous clients get
// the per-client file store keyed by the X-Client-ID header.
func (a *App) taskOwner(r *http.Request) (owner string, store todo.Store, authed bool, ok bool) {
	if userID := middleware.UserIDFromContext(r.Context()); userID != "" {
		return userID, a.Remote, true, true
	}
	clientID := strings.TrimSpace(r.Header.Get(clientIDHeader))
	if clientID == "" {
		return "", nil, false, false
	}
	return clientID, a.Local, false, true
}

// planFor looks the plan up with a hard time bound. A slow or failing
// profile read degrades to the free plan instead of blocking the request.
func (a *App) planFor(ctx context.Context, userID string) domain.Plan {
	result := infra.BoundedWait(ctx, a.Cfg.ProfileTimeout, string(domain.PlanFree), func(ctx context.Context) (string, error) {
		var plan string
		row := a.SQL.QueryRow(ctx, sqlinline.QSelectPlanByID, userID)
		if err := row.Scan(&plan); err != nil {
			return "", err
		}
		return plan, nil
	})
	if result.TimedOut {
		a.Logger.Warn().Str("user_id", userID).Msg("plan lookup timed out, assuming free")
	}
	if result.Err != nil {
		a.Logger.Warn().Err(result.Err).Str("user_id", userID).Msg("plan lookup failed, assuming free")
	}
	return domain.ParsePlan(result.Value)
}
