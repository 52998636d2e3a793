package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/upi-wallet-topup/pkg/models"
	"github.com/chris/upi-wallet-topup/pkg/storage"
)

// GetTransaction retrieves a transaction from DynamoDB by its order ID.
func (s *Store) GetTransaction(ctx context.Context, orderID string) (*models.Transaction, error) {
	return s.getTransaction(ctx, orderID, false)
}

// FindPendingByOrderID retrieves a transaction only while it is still pending.
// The read is strongly consistent so a freshly approved transaction is never returned.
func (s *Store) FindPendingByOrderID(ctx context.Context, orderID string) (*models.Transaction, error) {
	tx, err := s.getTransaction(ctx, orderID, true)
	if err != nil {
		return nil, err
	}

	if tx.Status != models.PENDING {
		return nil, fmt.Errorf("transaction with order ID %s is %s: %w", orderID, tx.Status, storage.ErrTransactionNotFound)
	}

	return tx, nil
}

func (s *Store) getTransaction(ctx context.Context, orderID string, consistent bool) (*models.Transaction, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"order_id": orderID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.TransactionsTableName),
		Key:            key,
		ConsistentRead: aws.Bool(consistent),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, unavailable("failed to get transaction from DynamoDB", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("transaction with order ID %s: %w", orderID, storage.ErrTransactionNotFound)
	}

	var tx models.Transaction
	if err := attributevalue.UnmarshalMap(result.Item, &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}

	return &tx, nil
}
