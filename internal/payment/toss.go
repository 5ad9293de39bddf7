// Package payment confirms checkout payments against the Toss Payments API.
package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	tossDefaultTimeout = 10 * time.Second
	tossDefaultBaseURL = "https://api.tosspayments.com"
)

// APIError is a rejection returned by the payments API, e.g. an aborted
// card authorization. The code is relayed to the client as-is.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("toss: %s (%s)", e.Message, e.Code)
}

// ConfirmRequest carries the three values the checkout redirect hands back.
// The server-side confirm is what actually captures the payment.
type ConfirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

// ConfirmResult is the subset of the confirm response the hub needs.
type ConfirmResult struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Status     string `json:"status"`
	Method     string `json:"method"`
	ApprovedAt string `json:"approvedAt"`
}

type Options struct {
	SecretKey  string
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SecretKey) == "" {
		return nil, errors.New("toss secret key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = tossDefaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: tossDefaultTimeout}
	}
	return &Client{
		secretKey: strings.TrimSpace(opts.SecretKey),
		baseURL:   baseURL,
		client:    client,
	}, nil
}

// Confirm captures the payment identified by req. A rejection from the API
// comes back as *APIError; everything else is a transport failure.
func (c *Client) Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return nil, fmt.Errorf("encode confirm request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/v1/payments/confirm", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("build confirm request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+basicCredentials(c.secretKey))
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("confirm request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		var apiErr APIError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Code == "" {
			return nil, fmt.Errorf("toss status %d", resp.StatusCode)
		}
		return nil, &apiErr
	}
	var result ConfirmResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode confirm response: %w", err)
	}
	return &result, nil
}

// The API authenticates with HTTP basic auth, secret key as the user name
// and an empty password.
func basicCredentials(secretKey string) string {
	return base64.StdEncoding.EncodeToString([]byte(secretKey + ":"))
}
