package domain

// Product is a purchasable subscription product.
type Product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	PlanType       string   `json:"plan_type"`
	Price          int64    `json:"price"`
	DurationMonths int      `json:"duration_months"`
	Description    string   `json:"description"`
	Features       []string `json:"features"`
	IsActive       bool     `json:"is_active"`
}
