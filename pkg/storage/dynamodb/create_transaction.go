package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/upi-wallet-topup/pkg/models"
	"github.com/chris/upi-wallet-topup/pkg/storage"
)

// CreateTransaction records a new pending transaction for the given order ID.
func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	now := time.Now().UTC()
	tx.Status = models.PENDING
	tx.Utr = ""
	tx.ProcessedAt = nil
	tx.CreatedAt = now
	tx.UpdatedAt = now

	slog.Log(ctx, slog.LevelDebug, "creating transaction", "order_id", tx.OrderId, "user_id", tx.UserId, "amount", tx.Amount)

	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}
	txAV["created_at"] = timeAV(now)
	txAV["updated_at"] = timeAV(now)

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.TransactionsTableName),
		Item:                txAV,
		ConditionExpression: aws.String("attribute_not_exists(order_id)"), // Order IDs are never reused.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("order ID %s: %w", tx.OrderId, storage.ErrDuplicateOrder)
		}
		return nil, unavailable("failed to create transaction in DynamoDB", err)
	}

	return tx, nil
}
