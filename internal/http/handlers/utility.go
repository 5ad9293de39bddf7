package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"utilhub/internal/calc"
	"utilhub/internal/convert"
)

type calcRequest struct {
	Keys string `json:"keys"`
}

type calcResponse struct {
	Display    string `json:"display"`
	Expression string `json:"expression"`
}

// Calculate replays a key sequence through a fresh calculator and returns the
// resulting display state. Unknown keys are ignored, matching the keyboard
// behaviour.
func (a *App) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_body", "request body must be JSON")
		return
	}
	if strings.TrimSpace(req.Keys) == "" {
		a.error(w, http.StatusBadRequest, "keys_required", "key sequence is required")
		return
	}
	c := calc.New()
	for _, k := range req.Keys {
		c.Key(k)
	}
	a.json(w, http.StatusOK, calcResponse{Display: c.Display(), Expression: c.Expression()})
}

type convertResponse struct {
	Category string  `json:"category"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Value    float64 `json:"value"`
	Result   float64 `json:"result"`
}

type convertUnitsResponse struct {
	Category string   `json:"category"`
	Units    []string `json:"units"`
}

// Convert converts a value between two units of the same category. Swapping
// direction is the same call with from and to exchanged.
func (a *App) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := convert.Category(strings.TrimSpace(q.Get("category")))
	from := strings.TrimSpace(q.Get("from"))
	to := strings.TrimSpace(q.Get("to"))
	value, err := strconv.ParseFloat(strings.TrimSpace(q.Get("value")), 64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "value_required", "value must be a number")
		return
	}
	result, err := convert.Convert(value, from, to, category)
	if err != nil {
		if errors.Is(err, convert.ErrUnsupported) {
			a.error(w, http.StatusBadRequest, "unsupported_conversion", err.Error())
			return
		}
		a.Logger.Error().Err(err).Msg("convert failed")
		a.error(w, http.StatusInternalServerError, "internal", "conversion failed")
		return
	}
	a.json(w, http.StatusOK, convertResponse{
		Category: string(category),
		From:     from,
		To:       to,
		Value:    value,
		Result:   result,
	})
}

// ConvertUnits lists the units of one category so a client can populate its
// pickers.
func (a *App) ConvertUnits(w http.ResponseWriter, r *http.Request) {
	category := convert.Category(strings.TrimSpace(r.URL.Query().Get("category")))
	units := convert.Units(category)
	if len(units) == 0 {
		a.error(w, http.StatusBadRequest, "unsupported_conversion", "unknown category")
		return
	}
	a.json(w, http.StatusOK, convertUnitsResponse{Category: string(category), Units: units})
}
