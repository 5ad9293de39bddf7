package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"utilhub/internal/domain"
	"utilhub/internal/infra"
	"utilhub/internal/middleware"
	"utilhub/internal/payment"
	"utilhub/internal/sqlinline"
)

const (
	paymentStatusPending = "pending"
	paymentStatusPaid    = "paid"
	paymentStatusFailed  = "failed"
)

type checkoutRequest struct {
	ProductID string `json:"product_id"`
}

type checkoutResponse struct {
	OrderID     string `json:"order_id"`
	OrderName   string `json:"order_name"`
	Amount      int64  `json:"amount"`
	CustomerKey string `json:"customer_key"`
	SuccessURL  string `json:"success_url"`
	FailURL     string `json:"fail_url"`
}

type paymentResultResponse struct {
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	Plan        string `json:"plan"`
	PlanPending bool   `json:"plan_pending,omitempty"`
}

// PaymentsCheckout opens a pending order for one catalog product. The
// amount is fixed server-side so the client cannot alter the price.
func (a *App) PaymentsCheckout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "sign in to purchase a plan")
		return
	}
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if a.planFor(r.Context(), userID) == domain.PlanPro {
		a.error(w, http.StatusConflict, "already_pro", domain.ErrAlreadyPro.Error())
		return
	}
	product, err := a.Catalog.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		a.Logger.Error().Err(err).Msg("select product failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to open checkout")
		return
	}
	orderID := "order_" + uuid.NewString()
	if _, err := a.SQL.Exec(r.Context(), sqlinline.QInsertPayment, orderID, userID, product.Price, product.Name); err != nil {
		a.Logger.Error().Err(err).Msg("insert payment failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to open checkout")
		return
	}
	base := strings.TrimRight(a.Cfg.PublicBaseURL, "/")
	a.json(w, http.StatusCreated, checkoutResponse{
		OrderID:     orderID,
		OrderName:   product.Name,
		Amount:      product.Price,
		CustomerKey: userID,
		SuccessURL:  base + "/v1/payments/success",
		FailURL:     base + "/v1/payments/fail",
	})
}

// PaymentsSuccess handles the checkout redirect: it verifies the order,
// captures the payment server-side and flips the buyer onto the pro plan.
// The flip is time-bounded; a slow database leaves the payment captured
// and the plan pending rather than failing the whole redirect.
func (a *App) PaymentsSuccess(w http.ResponseWriter, r *http.Request) {
	if a.Toss == nil {
		a.error(w, http.StatusServiceUnavailable, "payments_disabled", "payment confirmation is not configured")
		return
	}
	query := r.URL.Query()
	paymentKey := query.Get("paymentKey")
	orderID := query.Get("orderId")
	amountRaw := query.Get("amount")
	if paymentKey == "" || orderID == "" || amountRaw == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "paymentKey, orderId and amount are required")
		return
	}
	amount, err := strconv.ParseInt(amountRaw, 10, 64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "amount must be an integer")
		return
	}

	var buyerID string
	var orderAmount int64
	var status string
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectPaymentByOrder, orderID)
	if err := row.Scan(&buyerID, &orderAmount, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.error(w, http.StatusNotFound, "order_not_found", "unknown order")
			return
		}
		a.Logger.Error().Err(err).Msg("select payment failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to verify payment")
		return
	}
	if status == paymentStatusPaid {
		a.json(w, http.StatusOK, paymentResultResponse{OrderID: orderID, Status: paymentStatusPaid, Plan: string(domain.PlanPro)})
		return
	}
	if orderAmount != amount {
		a.error(w, http.StatusBadRequest, "amount_mismatch", "paid amount does not match the order")
		return
	}

	if _, err := a.Toss.Confirm(r.Context(), payment.ConfirmRequest{
		PaymentKey: paymentKey,
		OrderID:    orderID,
		Amount:     amount,
	}); err != nil {
		var apiErr *payment.APIError
		if errors.As(err, &apiErr) {
			a.markPayment(r.Context(), orderID, paymentStatusFailed, paymentKey)
			a.error(w, http.StatusPaymentRequired, apiErr.Code, apiErr.Message)
			return
		}
		a.Logger.Error().Err(err).Str("order_id", orderID).Msg("payment confirm failed")
		a.error(w, http.StatusBadGateway, "payment_unverified", "could not verify the payment")
		return
	}
	a.markPayment(r.Context(), orderID, paymentStatusPaid, paymentKey)

	flip := infra.BoundedWait(r.Context(), a.Cfg.PlanFlipTimeout, false, func(ctx context.Context) (bool, error) {
		_, err := a.SQL.Exec(ctx, sqlinline.QUpdatePlanPro, buyerID)
		return err == nil, err
	})
	resp := paymentResultResponse{OrderID: orderID, Status: paymentStatusPaid, Plan: string(domain.PlanPro)}
	if flip.TimedOut || flip.Err != nil {
		a.Logger.Warn().Err(flip.Err).Str("user_id", buyerID).Msg("plan flip pending after payment")
		resp.Plan = string(domain.PlanFree)
		resp.PlanPending = true
	}
	a.json(w, http.StatusOK, resp)
}

// PaymentsFail records the aborted checkout and relays the gateway's
// reason to the client.
func (a *App) PaymentsFail(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if orderID := query.Get("orderId"); orderID != "" {
		a.markPayment(r.Context(), orderID, paymentStatusFailed, "")
	}
	code := query.Get("code")
	if code == "" {
		code = "payment_failed"
	}
	message := query.Get("message")
	if message == "" {
		message = "the payment was not completed"
	}
	a.error(w, http.StatusPaymentRequired, code, message)
}

func (a *App) markPayment(ctx context.Context, orderID, status, paymentKey string) {
	if _, err := a.SQL.Exec(ctx, sqlinline.QUpdatePaymentStatus, orderID, status, paymentKey); err != nil {
		a.Logger.Error().Err(err).Str("order_id", orderID).Str("status", status).Msg("update payment failed")
	}
}
