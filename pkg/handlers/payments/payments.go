package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/chris/upi-wallet-topup/pkg/api"
	"github.com/chris/upi-wallet-topup/pkg/gateway"
	"github.com/chris/upi-wallet-topup/pkg/mapping"
	"github.com/chris/upi-wallet-topup/pkg/money"
	"github.com/chris/upi-wallet-topup/pkg/storage"
)

const maxBodyBytes = 64 << 10

// PaymentsHandler holds the dependencies for opening top-up orders.
type PaymentsHandler struct {
	Store   storage.TransactionManager
	Gateway gateway.Client
	Logger  *slog.Logger
}

// NewPaymentsHandler creates a new PaymentsHandler.
func NewPaymentsHandler(store storage.TransactionManager, client gateway.Client, logger *slog.Logger) *PaymentsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentsHandler{Store: store, Gateway: client, Logger: logger}
}

// CreatePayment records a pending transaction and opens the matching gateway order.
// The gateway's reply is relayed to the client unchanged.
func (h *PaymentsHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	req.OrderId = strings.TrimSpace(req.OrderId)
	req.UserId = strings.TrimSpace(req.UserId)
	if req.Amount == "" || req.OrderId == "" || req.UserId == "" {
		writeError(w, http.StatusBadRequest, "Missing data")
		return
	}

	paise, err := money.ParseRupees(req.Amount.String())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	// 1. Record the pending transaction first so a fast webhook always finds it.
	tx := mapping.ToDomainNewTransaction(req, paise)
	if _, err := h.Store.CreateTransaction(r.Context(), tx); err != nil {
		if errors.Is(err, storage.ErrDuplicateOrder) {
			writeError(w, http.StatusConflict, "Order ID already exists")
			return
		}
		h.Logger.ErrorContext(r.Context(), "failed to record transaction", "order_id", req.OrderId, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to record transaction")
		return
	}

	// 2. Open the order at the gateway.
	resp, err := h.Gateway.CreateOrder(r.Context(), gateway.OrderRequest{
		OrderID:        tx.OrderId,
		UserID:         tx.UserId,
		Amount:         tx.Amount,
		CustomerMobile: tx.CustomerMobile,
	})
	if err == nil && resp.StatusCode >= http.StatusInternalServerError {
		err = fmt.Errorf("%w: create order returned %d", gateway.ErrUnavailable, resp.StatusCode)
	}
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "gateway create order failed", "order_id", tx.OrderId, "error", err)
		writeError(w, http.StatusBadGateway, "Gateway connection failed")
		return
	}

	// 3. Relay the gateway's reply.
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		h.Logger.WarnContext(r.Context(), "failed to relay gateway reply", "order_id", tx.OrderId, "error", err)
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (*api.CreatePaymentRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		req := &api.CreatePaymentRequest{
			Amount:  json.Number(strings.TrimSpace(r.PostForm.Get("amount"))),
			OrderId: r.PostForm.Get("order_id"),
			UserId:  r.PostForm.Get("user_id"),
		}
		if mobile := strings.TrimSpace(r.PostForm.Get("customer_mobile")); mobile != "" {
			req.CustomerMobile = &mobile
		}
		return req, nil
	}

	var req api.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(api.ErrorResponse{Success: false, Message: message})
}
