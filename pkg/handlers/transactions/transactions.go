package transactions

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/chris/upi-wallet-topup/pkg/api"
	"github.com/chris/upi-wallet-topup/pkg/mapping"
	"github.com/chris/upi-wallet-topup/pkg/storage"
)

// TransactionsHandler holds the dependencies for transaction-related handlers.
type TransactionsHandler struct {
	Store storage.TransactionReader
}

// NewTransactionsHandler creates a new TransactionsHandler.
func NewTransactionsHandler(store storage.TransactionReader) *TransactionsHandler {
	return &TransactionsHandler{Store: store}
}

// GetTransactionByOrderId handles the logic for retrieving a transaction by its order ID.
func (h *TransactionsHandler) GetTransactionByOrderId(w http.ResponseWriter, r *http.Request, orderId string) {
	domainTx, err := h.Store.GetTransaction(r.Context(), orderId)
	if err != nil {
		if errors.Is(err, storage.ErrTransactionNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to retrieve transaction: %v", err), http.StatusInternalServerError)
		return
	}

	apiTx := mapping.ToApiTransaction(domainTx)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiTx); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListTransactionsByUserId handles the logic for retrieving all transactions for a user.
func (h *TransactionsHandler) ListTransactionsByUserId(w http.ResponseWriter, r *http.Request, userId string) {
	domainTxs, err := h.Store.ListTransactionsByUserID(r.Context(), userId)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve transactions: %v", err), http.StatusInternalServerError)
		return
	}

	apiTxs := make([]*api.Transaction, len(domainTxs))
	for i, tx := range domainTxs {
		apiTxs[i] = mapping.ToApiTransaction(&tx)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiTxs); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
