package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/chris/upi-wallet-topup/pkg/money"
)

// Text is a webhook field that gateways send either as a JSON string or a JSON number.
// It keeps the raw text; interpretation happens during validation.
type Text string

// UnmarshalJSON accepts strings, numbers and null.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*t = Text(n.String())
	return nil
}

// Payload is the gateway's webhook body. Nothing in it is trusted until validated.
type Payload struct {
	OrderID Text `json:"order_id"`
	Status  Text `json:"status"`
	Amount  Text `json:"amount"`
	Utr     Text `json:"utr"`
}

// PayloadFromForm builds a Payload from a form-encoded webhook body.
func PayloadFromForm(form url.Values) Payload {
	return Payload{
		OrderID: Text(form.Get("order_id")),
		Status:  Text(form.Get("status")),
		Amount:  Text(form.Get("amount")),
		Utr:     Text(form.Get("utr")),
	}
}

type paymentStatus int

const (
	statusSuccess paymentStatus = iota + 1
	statusFailure
)

var knownStatuses = map[string]paymentStatus{
	"success":        statusSuccess,
	"succeeded":      statusSuccess,
	"completed":      statusSuccess,
	"failure":        statusFailure,
	"failed":         statusFailure,
	"failed_payment": statusFailure,
}

// IsFinalStatus reports whether status is a recognized success or failure value.
func IsFinalStatus(status string) bool {
	_, ok := knownStatuses[normalizeStatus(status)]
	return ok
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// notification is a validated Payload.
type notification struct {
	orderID string
	status  paymentStatus
	amount  int64
	utr     string
}

func validate(p Payload) (notification, error) {
	n := notification{
		orderID: strings.TrimSpace(string(p.OrderID)),
		utr:     strings.TrimSpace(string(p.Utr)),
	}

	if n.orderID == "" {
		return n, fmt.Errorf("%w: order_id is required", ErrValidation)
	}

	status, ok := knownStatuses[normalizeStatus(string(p.Status))]
	if !ok {
		return n, fmt.Errorf("%w: unrecognized status %q", ErrValidation, string(p.Status))
	}
	n.status = status

	amount, err := money.ParseRupees(string(p.Amount))
	if err != nil {
		return n, fmt.Errorf("%w: amount: %w", ErrValidation, err)
	}
	n.amount = amount

	return n, nil
}
