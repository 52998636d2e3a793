package wallets

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/chris/upi-wallet-topup/pkg/mapping"
	"github.com/chris/upi-wallet-topup/pkg/storage"
)

// WalletsHandler holds the dependencies for wallet-related handlers.
type WalletsHandler struct {
	Store storage.WalletStore
}

// NewWalletsHandler creates a new WalletsHandler.
func NewWalletsHandler(store storage.WalletStore) *WalletsHandler {
	return &WalletsHandler{Store: store}
}

// GetWalletByUserId handles the logic for retrieving a user's wallet.
func (h *WalletsHandler) GetWalletByUserId(w http.ResponseWriter, r *http.Request, userId string) {
	domainWallet, err := h.Store.GetWallet(r.Context(), userId)
	if err != nil {
		if errors.Is(err, storage.ErrWalletNotFound) {
			http.Error(w, "Wallet not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to retrieve wallet: %v", err), http.StatusInternalServerError)
		return
	}

	apiWallet := mapping.ToApiWallet(domainWallet)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiWallet); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
