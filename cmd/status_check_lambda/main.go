package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/upi-wallet-topup/pkg/config"
	"github.com/chris/upi-wallet-topup/pkg/gateway"
	"github.com/chris/upi-wallet-topup/pkg/reconcile"
	dydbstore "github.com/chris/upi-wallet-topup/pkg/storage/dynamodb"
	"github.com/chris/upi-wallet-topup/pkg/sweeper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := cfg.RequireTables(); err != nil {
		log.Fatal(err)
	}
	logger := cfg.NewLogger()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	store := dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.TransactionsTable, cfg.WalletsTable, cfg.LedgerTable)
	reconciler := reconcile.New(store, logger,
		reconcile.WithMaxAttempts(cfg.ReconcileMaxAttempts),
		reconcile.WithAmountTolerance(cfg.AmountTolerance),
	)
	client := gateway.NewZapUPIClient(cfg.ZapBaseURL, cfg.ZapTokenKey, cfg.ZapSecretKey, cfg.ZapRedirectURL)

	h := &handler{
		checker: sweeper.NewStatusChecker(client, reconciler, logger),
		logger:  logger,
	}
	lambda.Start(h.HandleRequest)
}
