package ledger

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chris/upi-wallet-topup/pkg/api"
	"github.com/chris/upi-wallet-topup/pkg/mapping"
	"github.com/chris/upi-wallet-topup/pkg/storage"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// LedgerHandler holds the dependencies for ledger-related handlers.
type LedgerHandler struct {
	Store storage.LedgerReader
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(store storage.LedgerReader) *LedgerHandler {
	return &LedgerHandler{Store: store}
}

func (h *LedgerHandler) ListLedgerEntries(w http.ResponseWriter, r *http.Request, userId string, params api.ListLedgerEntriesParams) {
	limit := int32(defaultLimit)
	if params.Limit != nil {
		limit = *params.Limit
	}
	if limit < 1 || limit > maxLimit {
		http.Error(w, fmt.Sprintf("limit must be between 1 and %d", maxLimit), http.StatusBadRequest)
		return
	}

	domainEntries, err := h.Store.ListLedgerEntries(r.Context(), userId, limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve ledger entries: %v", err), http.StatusInternalServerError)
		return
	}

	apiEntries := make([]*api.LedgerEntry, len(domainEntries))
	for i, entry := range domainEntries {
		apiEntries[i] = mapping.ToApiLedgerEntry(&entry)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiEntries); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
