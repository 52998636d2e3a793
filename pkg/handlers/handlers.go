package handlers

import (
	"log/slog"
	"net/http"

	"github.com/chris/upi-wallet-topup/pkg/api"
	"github.com/chris/upi-wallet-topup/pkg/handlers/ledger"
	"github.com/chris/upi-wallet-topup/pkg/handlers/payments"
	"github.com/chris/upi-wallet-topup/pkg/handlers/transactions"
	"github.com/chris/upi-wallet-topup/pkg/handlers/wallets"
	"github.com/chris/upi-wallet-topup/pkg/handlers/webhooks"
	appmiddleware "github.com/chris/upi-wallet-topup/pkg/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const healthMessage = "UPI wallet top-up service is running"

// ApiHandler implements the generated server interface by composing the
// per-resource handlers.
type ApiHandler struct {
	*payments.PaymentsHandler
	*webhooks.WebhookHandler
	*transactions.TransactionsHandler
	*wallets.WalletsHandler
	*ledger.LedgerHandler
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(
	p *payments.PaymentsHandler,
	wh *webhooks.WebhookHandler,
	t *transactions.TransactionsHandler,
	w *wallets.WalletsHandler,
	l *ledger.LedgerHandler,
) *ApiHandler {
	return &ApiHandler{
		PaymentsHandler:     p,
		WebhookHandler:      wh,
		TransactionsHandler: t,
		WalletsHandler:      w,
		LedgerHandler:       l,
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

// GetHealth reports that the process is serving.
func (h *ApiHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(healthMessage))
}

// NewRouter mounts the handler on a chi router with request IDs, panic recovery and
// structured request logging.
func NewRouter(h api.ServerInterface, logger *slog.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appmiddleware.NewStructuredLogger(logger))
	router.Use(middleware.Recoverer)

	return api.HandlerWithOptions(h, api.ChiServerOptions{
		BaseRouter: router,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		},
	})
}
