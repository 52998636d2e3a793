// Package gateway talks to the ZapUPI payment gateway.
package gateway

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable is returned when the gateway could not be reached or answered with garbage.
	ErrUnavailable = errors.New("payment gateway unavailable")

	// ErrOrderRejected is returned when the gateway refuses a status query, typically because
	// it never accepted the order. Asking again will not change the answer.
	ErrOrderRejected = errors.New("payment gateway rejected the order")
)

// OrderRequest asks the gateway to open a UPI collect order.
type OrderRequest struct {
	OrderID        string
	UserID         string
	Amount         int64 // paise
	CustomerMobile string
}

// Response is the gateway's reply, kept raw so it can be relayed to the client as-is.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OrderStatus is what the gateway reports for an order when asked directly.
// Values are kept as text, in the same shape as a webhook delivery.
type OrderStatus struct {
	OrderID string
	Status  string
	Amount  string
	Utr     string
}

// Client defines the gateway operations the service uses.
type Client interface {
	// CreateOrder opens an order and returns the gateway's raw reply.
	CreateOrder(ctx context.Context, req OrderRequest) (*Response, error)

	// OrderStatus fetches the current state of an order.
	OrderStatus(ctx context.Context, orderID string) (*OrderStatus, error)
}
