package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/upi-wallet-topup/pkg/models"
	"github.com/chris/upi-wallet-topup/pkg/storage"
	"github.com/chris/upi-wallet-topup/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateTransaction(t *testing.T) {
	newTx := func() *models.Transaction {
		return &models.Transaction{OrderId: "O1", UserId: "U1", Amount: 10000, Utr: "stale"}
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, TransactionsTableName: "transactions"}

		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			status, ok := in.Item["status"].(*types.AttributeValueMemberS)
			created, _ := in.Item["created_at"].(*types.AttributeValueMemberS)
			return ok && status.Value == string(models.PENDING) &&
				created != nil && len(created.Value) == len("2006-01-02T15:04:05.000000000Z") &&
				*in.ConditionExpression == "attribute_not_exists(order_id)"
		})).Once().Return(&dynamodb.PutItemOutput{}, nil)

		result, err := store.CreateTransaction(context.Background(), newTx())

		assert.NoError(t, err)
		assert.Equal(t, models.PENDING, result.Status)
		assert.Empty(t, result.Utr)
		assert.Nil(t, result.ProcessedAt)
		assert.False(t, result.CreatedAt.IsZero())
		mockClient.AssertExpectations(t)
	})

	t.Run("Duplicate Order", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, TransactionsTableName: "transactions"}

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		_, err := store.CreateTransaction(context.Background(), newTx())

		assert.ErrorIs(t, err, storage.ErrDuplicateOrder)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, TransactionsTableName: "transactions"}

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("put failed"))

		_, err := store.CreateTransaction(context.Background(), newTx())

		assert.ErrorIs(t, err, storage.ErrStoreUnavailable)
		assert.Contains(t, err.Error(), "failed to create transaction in DynamoDB")
		mockClient.AssertExpectations(t)
	})
}
