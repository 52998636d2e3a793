package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/upi-wallet-topup/pkg/models"
	"github.com/chris/upi-wallet-topup/pkg/storage"
	"github.com/chris/upi-wallet-topup/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func cancelled(codes ...string) error {
	reasons := make([]types.CancellationReason, len(codes))
	for i, code := range codes {
		reasons[i] = types.CancellationReason{Code: aws.String(code)}
	}
	return &types.TransactionCanceledException{CancellationReasons: reasons}
}

func TestAtomicallyApprove(t *testing.T) {
	approval := models.Approval{
		OrderID:     "O1",
		UserID:      "U1",
		Amount:      10000,
		Utr:         "X1",
		ProcessedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	newStore := func(client *mocks.DynamoDBAPI) *Store {
		return New(client, "transactions", "wallets", "ledger")
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 3 {
				return false
			}
			txUpdate := in.TransactItems[approveTxItem].Update
			walletUpdate := in.TransactItems[creditWalletItem].Update
			ledgerPut := in.TransactItems[ledgerEntryItem].Put
			amount := walletUpdate.ExpressionAttributeValues[":amount"].(*types.AttributeValueMemberN)
			utr := txUpdate.ExpressionAttributeValues[":utr"].(*types.AttributeValueMemberS)
			processedAt := txUpdate.ExpressionAttributeValues[":now"].(*types.AttributeValueMemberS)
			entryTime := ledgerPut.Item["timestamp"].(*types.AttributeValueMemberS)
			return *txUpdate.TableName == "transactions" &&
				*txUpdate.ConditionExpression == "#status = :pending_status AND amount = :amount AND user_id = :user_id" &&
				*walletUpdate.TableName == "wallets" &&
				amount.Value == "10000" &&
				utr.Value == "X1" &&
				processedAt.Value == "2026-01-02T03:04:05.000000000Z" &&
				entryTime.Value == processedAt.Value &&
				*ledgerPut.TableName == "ledger"
		})).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		err := store.AtomicallyApprove(context.Background(), approval)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Lost Race", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, cancelled("ConditionalCheckFailed", "None", "None")).Once()

		err := store.AtomicallyApprove(context.Background(), approval)

		assert.ErrorIs(t, err, storage.ErrTransactionNotPending)
		mockClient.AssertExpectations(t)
	})

	t.Run("Transaction Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, cancelled("None", "TransactionConflict", "None")).Once()

		err := store.AtomicallyApprove(context.Background(), approval)

		assert.ErrorIs(t, err, storage.ErrContention)
		assert.NotErrorIs(t, err, storage.ErrTransactionNotPending)
		mockClient.AssertExpectations(t)
	})

	t.Run("Throttled", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, &types.ProvisionedThroughputExceededException{}).Once()

		err := store.AtomicallyApprove(context.Background(), approval)

		assert.ErrorIs(t, err, storage.ErrContention)
		mockClient.AssertExpectations(t)
	})

	t.Run("Store Unavailable", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, errors.New("dial tcp: connection refused")).Once()

		err := store.AtomicallyApprove(context.Background(), approval)

		assert.ErrorIs(t, err, storage.ErrStoreUnavailable)
		assert.Contains(t, err.Error(), "failed to execute approval transaction")
		mockClient.AssertExpectations(t)
	})

	t.Run("Non Positive Amount", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newStore(mockClient)

		bad := approval
		bad.Amount = 0
		err := store.AtomicallyApprove(context.Background(), bad)

		assert.Error(t, err)
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})
}
