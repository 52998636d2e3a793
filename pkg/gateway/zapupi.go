package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chris/upi-wallet-topup/pkg/money"
)

const (
	DefaultBaseURL        = "https://zapupi.com"
	DefaultCustomerMobile = "9999999999"

	createOrderPath = "/api/create-order"
	orderStatusPath = "/api/order-status"

	// Replies larger than this are not something the gateway sends.
	maxBodyBytes = 1 << 20
)

// ZapUPIClient implements Client against the ZapUPI HTTP API.
type ZapUPIClient struct {
	BaseURL     string
	TokenKey    string
	SecretKey   string
	RedirectURL string
	HTTPClient  *http.Client
}

// NewZapUPIClient creates a client. An empty baseURL uses DefaultBaseURL.
func NewZapUPIClient(baseURL, tokenKey, secretKey, redirectURL string) *ZapUPIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ZapUPIClient{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		TokenKey:    tokenKey,
		SecretKey:   secretKey,
		RedirectURL: redirectURL,
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Make sure we conform to the interface
var _ Client = (*ZapUPIClient)(nil)

// CreateOrder posts a form-encoded create-order request. Any HTTP reply is returned as a
// Response; only transport failures produce ErrUnavailable.
func (c *ZapUPIClient) CreateOrder(ctx context.Context, req OrderRequest) (*Response, error) {
	mobile := req.CustomerMobile
	if mobile == "" {
		mobile = DefaultCustomerMobile
	}

	form := c.credentials()
	form.Set("amount", money.FormatPaise(req.Amount))
	form.Set("order_id", req.OrderID)
	form.Set("customer_mobile", mobile)
	form.Set("redirect_url", c.RedirectURL)
	form.Set("remark", "Wallet_Refill_"+req.UserID)

	return c.post(ctx, createOrderPath, form)
}

// OrderStatus asks the gateway for the state of an order. The reply may carry the order
// fields at the top level or inside a "data" object.
func (c *ZapUPIClient) OrderStatus(ctx context.Context, orderID string) (*OrderStatus, error) {
	form := c.credentials()
	form.Set("order_id", orderID)

	resp, err := c.post(ctx, orderStatusPath, form)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: order status returned %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("order status for %s refused with %d, check the gateway credentials", orderID, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: order status for %s returned %d: %s", ErrOrderRejected, orderID, resp.StatusCode, resp.Body)
	}

	decoder := json.NewDecoder(bytes.NewReader(resp.Body))
	decoder.UseNumber()
	var envelope map[string]any
	if err := decoder.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: failed to decode order status: %v", ErrUnavailable, err)
	}

	fields := envelope
	if data, ok := envelope["data"].(map[string]any); ok {
		fields = data
	}

	status := &OrderStatus{
		OrderID: text(fields["order_id"]),
		Status:  text(fields["status"]),
		Amount:  text(fields["amount"]),
		Utr:     text(fields["utr"]),
	}
	if status.OrderID == "" {
		status.OrderID = orderID
	}
	return status, nil
}

func (c *ZapUPIClient) credentials() url.Values {
	form := url.Values{}
	form.Set("token_key", c.TokenKey)
	form.Set("secret_key", c.SecretKey)
	return form
}

func (c *ZapUPIClient) post(ctx context.Context, path string, form url.Values) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read gateway reply: %w", ErrUnavailable, err)
	}

	return &Response{
		StatusCode:  httpResp.StatusCode,
		ContentType: httpResp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
