package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"utilhub/internal/domain"
	"utilhub/internal/infra"
	"utilhub/internal/middleware"
	"utilhub/internal/sqlinline"
)

const (
	minPasswordLength = 6
	pgUniqueViolation = "23505"
)

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type sessionResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type userDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Plan        string `json:"plan"`
	DisplayName string `json:"display_name,omitempty"`
}

func (a *App) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		a.error(w, http.StatusBadRequest, "bad_request", "a valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		a.error(w, http.StatusBadRequest, "bad_request", "password must be at least 6 characters")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.Logger.Error().Err(err).Msg("hash password failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create account")
		return
	}
	displayName := strings.TrimSpace(req.DisplayName)
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertProfile, email, string(hash), displayName)
	var userID, plan string
	if err := row.Scan(&userID, &plan); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			a.error(w, http.StatusConflict, "email_taken", "an account with this email already exists")
			return
		}
		a.Logger.Error().Err(err).Msg("insert profile failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create account")
		return
	}
	a.respondSession(w, userID, email, plan, displayName)
}

func (a *App) Signin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectProfileByEmail, email)
	var userID, passwordHash, plan, displayName string
	err := row.Scan(&userID, &passwordHash, &plan, &displayName)
	if errors.Is(err, pgx.ErrNoRows) {
		// Same answer for an unknown email and a wrong password.
		a.error(w, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
		return
	}
	if err != nil {
		a.Logger.Error().Err(err).Msg("select profile failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign in")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
		a.error(w, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
		return
	}
	a.respondSession(w, userID, email, plan, displayName)
}

// Signout exists for symmetry with the session endpoints. Sessions are
// stateless tokens, so the server has nothing to revoke.
func (a *App) Signout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

type profileRow struct {
	Email       string
	Plan        string
	DisplayName string
}

// Me serves the signed-in profile. The lookup is time-bounded: a slow
// database degrades the answer to the token's email and the free plan
// instead of stalling the client.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	fallback := profileRow{
		Email: middleware.UserEmailFromContext(r.Context()),
		Plan:  string(domain.PlanFree),
	}
	result := infra.BoundedWait(r.Context(), a.Cfg.ProfileTimeout, fallback, func(ctx context.Context) (profileRow, error) {
		var p profileRow
		var id string
		var createdAt time.Time
		row := a.SQL.QueryRow(ctx, sqlinline.QSelectProfileByID, userID)
		if err := row.Scan(&id, &p.Email, &p.Plan, &p.DisplayName, &createdAt); err != nil {
			return profileRow{}, err
		}
		return p, nil
	})
	if result.TimedOut {
		a.Logger.Warn().Str("user_id", userID).Msg("profile lookup timed out, serving free defaults")
	}
	if result.Err != nil {
		if errors.Is(result.Err, pgx.ErrNoRows) {
			a.error(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		a.Logger.Error().Err(result.Err).Msg("select profile failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load profile")
		return
	}
	a.json(w, http.StatusOK, userDTO{
		ID:          userID,
		Email:       result.Value.Email,
		Plan:        string(domain.ParsePlan(result.Value.Plan)),
		DisplayName: result.Value.DisplayName,
	})
}

func (a *App) respondSession(w http.ResponseWriter, userID, email, plan, displayName string) {
	token, err := middleware.SignSession(a.Cfg.JWTSecret, userID, email, plan)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign session failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusOK, sessionResponse{
		Token: token,
		User: userDTO{
			ID:          userID,
			Email:       email,
			Plan:        string(domain.ParsePlan(plan)),
			DisplayName: displayName,
		},
	})
}
