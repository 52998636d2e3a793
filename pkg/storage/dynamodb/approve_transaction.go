package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/upi-wallet-topup/pkg/models"
	"github.com/chris/upi-wallet-topup/pkg/storage"
	"github.com/google/uuid"
)

// Positions of the writes inside the approval transaction. Cancellation reasons are
// reported in the same order.
const (
	approveTxItem = iota
	creditWalletItem
	ledgerEntryItem
)

// AtomicallyApprove moves a pending transaction to approved and credits the owner's wallet
// in a single TransactWriteItems call.
// The transaction update is conditioned on the record still being pending with the same owner
// and amount, so of any number of concurrent callers at most one commits.
func (s *Store) AtomicallyApprove(ctx context.Context, approval models.Approval) error {
	if approval.Amount <= 0 {
		return fmt.Errorf("refusing to credit non-positive amount %d for order %s", approval.Amount, approval.OrderID)
	}

	processedAt := approval.ProcessedAt.UTC()
	if approval.ProcessedAt.IsZero() {
		processedAt = time.Now().UTC()
	}

	amountAV, err := attributevalue.Marshal(approval.Amount)
	if err != nil {
		return fmt.Errorf("failed to marshal amount for approval: %w", err)
	}
	processedAtAV := timeAV(processedAt)

	entry := models.LedgerEntry{
		EntryID:   uuid.New().String(),
		OrderID:   approval.OrderID,
		UserID:    approval.UserID,
		Credit:    approval.Amount,
		Utr:       approval.Utr,
		Timestamp: processedAt,
	}
	entryAV, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger entry: %w", err)
	}
	entryAV["timestamp"] = processedAtAV

	items := make([]types.TransactWriteItem, 3)
	items[approveTxItem] = types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(s.TransactionsTableName),
			Key:                 map[string]types.AttributeValue{"order_id": &types.AttributeValueMemberS{Value: approval.OrderID}},
			UpdateExpression:    aws.String("SET #status = :approved_status, utr = :utr, processed_at = :now, updated_at = :now"),
			ConditionExpression: aws.String("#status = :pending_status AND amount = :amount AND user_id = :user_id"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":approved_status": &types.AttributeValueMemberS{Value: string(models.APPROVED)},
				":pending_status":  &types.AttributeValueMemberS{Value: string(models.PENDING)},
				":utr":             &types.AttributeValueMemberS{Value: approval.Utr},
				":amount":          amountAV,
				":user_id":         &types.AttributeValueMemberS{Value: approval.UserID},
				":now":             processedAtAV,
			},
		},
	}
	// ADD creates the wallet on its first credit.
	items[creditWalletItem] = types.TransactWriteItem{
		Update: &types.Update{
			TableName:        aws.String(s.WalletsTableName),
			Key:              map[string]types.AttributeValue{"user_id": &types.AttributeValueMemberS{Value: approval.UserID}},
			UpdateExpression: aws.String("ADD balance :amount, version :inc SET updated_at = :now"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":amount": amountAV,
				":inc":    &types.AttributeValueMemberN{Value: "1"},
				":now":    processedAtAV,
			},
		},
	}
	items[ledgerEntryItem] = types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.LedgerTableName),
			Item:                entryAV,
			ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
		},
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		return classifyApprovalError(approval.OrderID, err)
	}

	return nil
}

func classifyApprovalError(orderID string, err error) error {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return unavailable("failed to execute approval transaction", err)
	}

	reasons := tce.CancellationReasons
	if len(reasons) > approveTxItem && aws.ToString(reasons[approveTxItem].Code) == "ConditionalCheckFailed" {
		return fmt.Errorf("order %s: %w", orderID, storage.ErrTransactionNotPending)
	}

	for _, reason := range reasons {
		switch aws.ToString(reason.Code) {
		case "TransactionConflict", "ThrottlingError", "ProvisionedThroughputExceeded", "ConditionalCheckFailed":
			// A ledger entry ID collision lands here too; a retry draws a fresh one.
			return fmt.Errorf("approval of order %s cancelled (%s): %w", orderID, aws.ToString(reason.Code), storage.ErrContention)
		}
	}

	return fmt.Errorf("approval of order %s cancelled: %w: %w", orderID, storage.ErrStoreUnavailable, err)
}
