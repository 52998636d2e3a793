package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/upi-wallet-topup/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the Store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client                DynamoDBAPI
	TransactionsTableName string
	WalletsTableName      string
	LedgerTableName       string
}

// New creates a new Store.
func New(client DynamoDBAPI, transactionsTable, walletsTable, ledgerTable string) *Store {
	return &Store{
		Client:                client,
		TransactionsTableName: transactionsTable,
		WalletsTableName:      walletsTable,
		LedgerTableName:       ledgerTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// unavailable tags a client error as retryable. Throttling is reported as contention so
// the engine backs off before trying again.
func unavailable(op string, err error) error {
	var throughput *types.ProvisionedThroughputExceededException
	var limit *types.RequestLimitExceeded
	var conflict *types.TransactionConflictException
	var inProgress *types.TransactionInProgressException
	if errors.As(err, &throughput) || errors.As(err, &limit) || errors.As(err, &conflict) || errors.As(err, &inProgress) {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrContention, err)
	}
	return fmt.Errorf("%s: %w: %w", op, storage.ErrStoreUnavailable, err)
}
