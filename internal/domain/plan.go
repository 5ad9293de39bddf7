package domain

import (
	"strings"
	"time"
)

// Plan is the subscription tier gating feature limits.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// ParsePlan normalizes a stored plan value. Anything that is not exactly
// "pro" collapses to the free tier, matching the conservative default used
// everywhere a plan cannot be resolved.
func ParsePlan(s string) Plan {
	if strings.EqualFold(strings.TrimSpace(s), string(PlanPro)) {
		return PlanPro
	}
	return PlanFree
}

// WindowMonths returns the forward-looking scheduling window for the plan.
func (p Plan) WindowMonths() int {
	if p == PlanPro {
		return 3
	}
	return 1
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MaxDueDate computes the last schedulable day for the plan: start of today
// plus the plan's window in months.
func (p Plan) MaxDueDate(now time.Time) time.Time {
	return StartOfDay(now).AddDate(0, p.WindowMonths(), 0)
}

// IsDateAllowed reports whether a due date falls inside the plan's window.
// Dates strictly after the window boundary are rejected, never clamped.
func (p Plan) IsDateAllowed(date, now time.Time) bool {
	return !StartOfDay(date).After(p.MaxDueDate(now))
}
