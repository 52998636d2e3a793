package mapping

import (
	"testing"
	"time"

	"github.com/chris/upi-wallet-topup/pkg/api"
	"github.com/chris/upi-wallet-topup/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToApiTransaction(t *testing.T) {
	processed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("Approved", func(t *testing.T) {
		apiTx := ToApiTransaction(&models.Transaction{
			OrderId:     "O1",
			UserId:      "U1",
			Amount:      10050,
			Status:      models.APPROVED,
			Utr:         "X1",
			ProcessedAt: &processed,
		})

		assert.Equal(t, "100.50", apiTx.Amount)
		assert.Equal(t, api.Approved, apiTx.Status)
		require.NotNil(t, apiTx.Utr)
		assert.Equal(t, "X1", *apiTx.Utr)
		assert.Equal(t, &processed, apiTx.ProcessedAt)
		assert.Nil(t, apiTx.CustomerMobile)
	})

	t.Run("Pending", func(t *testing.T) {
		apiTx := ToApiTransaction(&models.Transaction{OrderId: "O1", Amount: 100, Status: models.PENDING})

		assert.Equal(t, "1.00", apiTx.Amount)
		assert.Equal(t, api.Pending, apiTx.Status)
		assert.Nil(t, apiTx.Utr)
		assert.Nil(t, apiTx.ProcessedAt)
	})
}

func TestToDomainNewTransaction(t *testing.T) {
	mobile := "9876543210"
	tx := ToDomainNewTransaction(&api.CreatePaymentRequest{
		Amount:         "100",
		OrderId:        "O1",
		UserId:         "U1",
		CustomerMobile: &mobile,
	}, 10000)

	assert.Equal(t, &models.Transaction{OrderId: "O1", UserId: "U1", Amount: 10000, CustomerMobile: mobile}, tx)
}

func TestToApiWallet(t *testing.T) {
	w := ToApiWallet(&models.Wallet{UserId: "U1", Balance: 15000, Version: 3})

	assert.Equal(t, "150.00", w.Balance)
	assert.Equal(t, int64(3), w.Version)
}

func TestToApiLedgerEntry(t *testing.T) {
	e := ToApiLedgerEntry(&models.LedgerEntry{EntryID: "e1", OrderID: "O1", UserID: "U1", Credit: 2550})

	assert.Equal(t, "25.50", e.Credit)
	assert.Nil(t, e.Utr)
}
