package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/upi-wallet-topup/pkg/models"
	"github.com/chris/upi-wallet-topup/pkg/storage"
	"github.com/chris/upi-wallet-topup/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetWallet(t *testing.T) {
	wallet := &models.Wallet{UserId: "U1", Balance: 15000, Version: 3}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		walletAV, _ := attributevalue.MarshalMap(wallet)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: walletAV}, nil)

		store := New(mockClient, "transactions", "wallets", "ledger")
		result, err := store.GetWallet(context.Background(), "U1")

		assert.NoError(t, err)
		assert.Equal(t, wallet, result)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		store := New(mockClient, "transactions", "wallets", "ledger")
		_, err := store.GetWallet(context.Background(), "U1")

		assert.ErrorIs(t, err, storage.ErrWalletNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		store := New(mockClient, "transactions", "wallets", "ledger")
		_, err := store.GetWallet(context.Background(), "U1")

		assert.ErrorIs(t, err, storage.ErrStoreUnavailable)
		mockClient.AssertExpectations(t)
	})
}
