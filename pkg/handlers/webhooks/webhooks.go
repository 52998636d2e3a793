package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/chris/upi-wallet-topup/pkg/reconcile"
	"github.com/google/uuid"
)

const maxBodyBytes = 64 << 10

// Reconciler applies one webhook delivery.
type Reconciler interface {
	Reconcile(ctx context.Context, p reconcile.Payload) (reconcile.Result, error)
}

// WebhookHandler receives gateway payment notifications.
type WebhookHandler struct {
	Reconciler Reconciler
	Timeout    time.Duration
	Logger     *slog.Logger
}

// NewWebhookHandler creates a new WebhookHandler. A zero timeout means the request's own deadline.
func NewWebhookHandler(reconciler Reconciler, timeout time.Duration, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{Reconciler: reconciler, Timeout: timeout, Logger: logger}
}

// HandleWebhook acknowledges every terminal outcome with 200 and answers 500 only when the
// gateway should redeliver.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger.With("delivery_id", uuid.NewString())

	payload, err := decodePayload(w, r)
	if err != nil {
		logger.WarnContext(r.Context(), "undecodable webhook body", "error", err)
		writeText(w, http.StatusOK, "Invalid webhook payload")
		return
	}

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	result, err := h.Reconciler.Reconcile(ctx, payload)
	if err != nil {
		logger.ErrorContext(ctx, "webhook will be redelivered", "order_id", string(payload.OrderID), "error", err)
		writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.InfoContext(ctx, "webhook handled", "order_id", result.OrderID, "outcome", string(result.Outcome))

	switch result.Outcome {
	case reconcile.OutcomeApproved:
		writeText(w, http.StatusOK, "Webhook Processed Successfully")
	case reconcile.OutcomeNotFound:
		writeText(w, http.StatusOK, "No pending transaction found")
	case reconcile.OutcomeRejected:
		writeText(w, http.StatusOK, "Payment was not successful")
	default:
		writeText(w, http.StatusOK, "Invalid webhook payload")
	}
}

func decodePayload(w http.ResponseWriter, r *http.Request) (reconcile.Payload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return reconcile.Payload{}, err
		}
		return reconcile.PayloadFromForm(r.PostForm), nil
	}

	var p reconcile.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return reconcile.Payload{}, err
	}
	return p, nil
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	io.WriteString(w, body)
}
