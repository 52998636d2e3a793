package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/upi-wallet-topup/pkg/config"
	"github.com/chris/upi-wallet-topup/pkg/gateway"
	"github.com/chris/upi-wallet-topup/pkg/handlers"
	"github.com/chris/upi-wallet-topup/pkg/handlers/ledger"
	"github.com/chris/upi-wallet-topup/pkg/handlers/payments"
	"github.com/chris/upi-wallet-topup/pkg/handlers/transactions"
	"github.com/chris/upi-wallet-topup/pkg/handlers/wallets"
	"github.com/chris/upi-wallet-topup/pkg/handlers/webhooks"
	"github.com/chris/upi-wallet-topup/pkg/reconcile"
	"github.com/chris/upi-wallet-topup/pkg/storage"
	dydbstore "github.com/chris/upi-wallet-topup/pkg/storage/dynamodb"
	"github.com/chris/upi-wallet-topup/pkg/storage/memory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("unable to create store: %v", err)
	}

	client := gateway.NewZapUPIClient(cfg.ZapBaseURL, cfg.ZapTokenKey, cfg.ZapSecretKey, cfg.ZapRedirectURL)
	reconciler := reconcile.New(store, logger,
		reconcile.WithMaxAttempts(cfg.ReconcileMaxAttempts),
		reconcile.WithAmountTolerance(cfg.AmountTolerance),
	)

	handler := handlers.NewApiHandler(
		payments.NewPaymentsHandler(store, client, logger),
		webhooks.NewWebhookHandler(reconciler, cfg.ReconcileTimeout, logger),
		transactions.NewTransactionsHandler(store),
		wallets.NewWalletsHandler(store),
		ledger.NewLedgerHandler(store),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handlers.NewRouter(handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("starting server", "port", cfg.HTTPPort, "storage", cfg.StorageBackend)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageBackend == config.BackendMemory {
		return memory.New(), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.TransactionsTable, cfg.WalletsTable, cfg.LedgerTable), nil
}
