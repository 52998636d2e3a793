package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/upi-wallet-topup/pkg/config"
	"github.com/chris/upi-wallet-topup/pkg/scheduler"
	dydbstore "github.com/chris/upi-wallet-topup/pkg/storage/dynamodb"
	"github.com/chris/upi-wallet-topup/pkg/sweeper"
)

var (
	sweep  *sweeper.Sweeper
	logger *slog.Logger
)

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := cfg.RequireTables(); err != nil {
		log.Fatal(err)
	}
	if cfg.SQSQueueURL == "" {
		log.Fatal("SQS_QUEUE_URL environment variable not set")
	}
	logger = cfg.NewLogger()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	store := dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.TransactionsTable, cfg.WalletsTable, cfg.LedgerTable)
	sqsScheduler := scheduler.NewSQSScheduler(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL)

	sweep = sweeper.New(store, sqsScheduler, cfg.StaleOrderAge, cfg.StaleOrderMaxAge, logger)
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) error {
	logger.InfoContext(ctx, "starting sweep of stale pending orders", "min_age", sweep.MinAge.String(), "max_age", sweep.MaxAge.String())

	report, err := sweep.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "sweep failed", "error", err)
		return err
	}

	logger.InfoContext(ctx, "sweep finished", "found", report.Found, "enqueued", report.Enqueued, "failed", report.Failed)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
