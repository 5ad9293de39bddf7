package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"utilhub/internal/calc"
	"utilhub/internal/domain"
)

const (
	toolGetProducts    = "get_products"
	toolSearchProducts = "search_products"
	toolCalculate      = "calculate"
	toolGetCurrentTime = "get_current_time"
)

// ProductSource is the catalog surface the assistant tools read from.
type ProductSource interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
	SearchByName(ctx context.Context, term string) ([]domain.Product, error)
}

// Dispatcher executes the functions the model is allowed to call.
type Dispatcher struct {
	Products ProductSource
	Now      func() time.Time
}

func NewDispatcher(products ProductSource) *Dispatcher {
	return &Dispatcher{Products: products, Now: time.Now}
}

// Manifest lists the callable functions advertised to the model.
func (d *Dispatcher) Manifest() []Tool {
	return []Tool{
		functionTool(toolGetProducts,
			"List every subscription product currently on sale, with plan type, price and features.",
			`{"type":"object","properties":{},"required":[]}`),
		functionTool(toolSearchProducts,
			"Search products on sale by name.",
			`{"type":"object","properties":{"query":{"type":"string","description":"substring to match against product names"}},"required":["query"]}`),
		functionTool(toolCalculate,
			"Evaluate an arithmetic expression with +, -, *, / and parentheses.",
			`{"type":"object","properties":{"expression":{"type":"string","description":"arithmetic expression, e.g. (3+4)*2"}},"required":["expression"]}`),
		functionTool(toolGetCurrentTime,
			"Return the current date and time.",
			`{"type":"object","properties":{},"required":[]}`),
	}
}

func functionTool(name, description, parameters string) Tool {
	return Tool{
		Type: "function",
		Function: FunctionSpec{
			Name:        name,
			Description: description,
			Parameters:  json.RawMessage(parameters),
		},
	}
}

// Dispatch runs one tool call and returns its result as a JSON string the
// model reads back. User-level tool failures (a bad expression, an unknown
// function) are reported in the result so the model can explain them; only
// backend failures surface as errors.
func (d *Dispatcher) Dispatch(ctx context.Context, call ToolCall) (string, error) {
	switch call.Function.Name {
	case toolGetProducts:
		products, err := d.Products.ListActive(ctx)
		if err != nil {
			return "", fmt.Errorf("list products: %w", err)
		}
		return encodeToolResult(map[string]any{"products": productSummaries(products)})
	case toolSearchProducts:
		var args struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return encodeToolResult(map[string]any{"error": "invalid arguments"})
		}
		products, err := d.Products.SearchByName(ctx, args.Query)
		if err != nil {
			return "", fmt.Errorf("search products: %w", err)
		}
		return encodeToolResult(map[string]any{"products": productSummaries(products)})
	case toolCalculate:
		var args struct {
			Expression string `json:"expression"`
		}
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return encodeToolResult(map[string]any{"error": "invalid arguments"})
		}
		result, err := calc.Eval(args.Expression)
		if err != nil {
			return encodeToolResult(map[string]any{"error": err.Error()})
		}
		return encodeToolResult(map[string]any{"expression": args.Expression, "result": result})
	case toolGetCurrentTime:
		now := d.Now()
		return encodeToolResult(map[string]any{
			"iso":     now.Format(time.RFC3339),
			"date":    now.Format("2006-01-02"),
			"time":    now.Format("15:04"),
			"weekday": now.Weekday().String(),
		})
	default:
		return encodeToolResult(map[string]any{"error": fmt.Sprintf("unknown function %q", call.Function.Name)})
	}
}

type productSummary struct {
	Name           string   `json:"name"`
	PlanType       string   `json:"plan_type"`
	Price          int64    `json:"price"`
	DurationMonths int      `json:"duration_months"`
	Description    string   `json:"description"`
	Features       []string `json:"features"`
}

func productSummaries(products []domain.Product) []productSummary {
	summaries := make([]productSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, productSummary{
			Name:           p.Name,
			PlanType:       p.PlanType,
			Price:          p.Price,
			DurationMonths: p.DurationMonths,
			Description:    p.Description,
			Features:       p.Features,
		})
	}
	return summaries
}

func encodeToolResult(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode tool result: %w", err)
	}
	return string(raw), nil
}
