package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/upi-wallet-topup/pkg/models"
)

const (
	stalePendingGSI = "status-created_at-index"
	userIDIndex     = "user_id-index"
	ledgerUserGSI   = "user_id-timestamp-index"
)

// ListStalePending retrieves transactions still pending that were created between maxAge
// and minAge ago.
func (s *Store) ListStalePending(ctx context.Context, minAge, maxAge time.Duration) ([]models.Transaction, error) {
	now := time.Now().UTC()

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(stalePendingGSI),
		KeyConditionExpression: aws.String("#status = :status AND created_at BETWEEN :oldest AND :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(models.PENDING)},
			":oldest": timeAV(now.Add(-maxAge)),
			":cutoff": timeAV(now.Add(-minAge)),
		},
	}

	var transactions []models.Transaction
	for {
		page, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, unavailable("failed to query for stale transactions", err)
		}

		var batch []models.Transaction
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stale transactions: %w", err)
		}
		transactions = append(transactions, batch...)

		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = page.LastEvaluatedKey
	}

	return transactions, nil
}

// ListTransactionsByUserID retrieves all transactions for a specific user.
func (s *Store) ListTransactionsByUserID(ctx context.Context, userID string) ([]models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(userIDIndex),
		KeyConditionExpression: aws.String("user_id = :userID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberS{Value: userID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, unavailable("failed to query for transactions by user ID", err)
	}

	var transactions []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &transactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}

	return transactions, nil
}

// ListLedgerEntries retrieves the most recent credits for a user, newest first.
func (s *Store) ListLedgerEntries(ctx context.Context, userID string, limit int32) ([]models.LedgerEntry, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.LedgerTableName),
		IndexName:              aws.String(ledgerUserGSI),
		KeyConditionExpression: aws.String("user_id = :userID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false), // Sort by timestamp in descending order
		Limit:            aws.Int32(limit),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, unavailable("failed to query for ledger entries", err)
	}

	var entries []models.LedgerEntry
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger entries: %w", err)
	}

	return entries, nil
}
