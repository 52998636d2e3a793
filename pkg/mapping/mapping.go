package mapping

import (
	"github.com/chris/upi-wallet-topup/pkg/api"
	"github.com/chris/upi-wallet-topup/pkg/models"
	"github.com/chris/upi-wallet-topup/pkg/money"
)

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	return &api.Transaction{
		OrderId:        tx.OrderId,
		UserId:         tx.UserId,
		Amount:         money.FormatPaise(tx.Amount),
		Status:         api.TransactionStatus(tx.Status),
		CustomerMobile: optional(tx.CustomerMobile),
		Utr:            optional(tx.Utr),
		ProcessedAt:    tx.ProcessedAt,
		CreatedAt:      tx.CreatedAt,
		UpdatedAt:      tx.UpdatedAt,
	}
}

// ToDomainNewTransaction converts a validated create-payment request to a pending Transaction.
func ToDomainNewTransaction(req *api.CreatePaymentRequest, amountPaise int64) *models.Transaction {
	tx := &models.Transaction{
		OrderId: req.OrderId,
		UserId:  req.UserId,
		Amount:  amountPaise,
	}
	if req.CustomerMobile != nil {
		tx.CustomerMobile = *req.CustomerMobile
	}
	return tx
}

// ToApiWallet converts a domain Wallet model to an API Wallet model.
func ToApiWallet(wallet *models.Wallet) *api.Wallet {
	return &api.Wallet{
		UserId:    wallet.UserId,
		Balance:   money.FormatPaise(wallet.Balance),
		Version:   wallet.Version,
		UpdatedAt: wallet.UpdatedAt,
	}
}

// ToApiLedgerEntry converts a domain LedgerEntry model to an API LedgerEntry model.
func ToApiLedgerEntry(entry *models.LedgerEntry) *api.LedgerEntry {
	return &api.LedgerEntry{
		EntryId:   entry.EntryID,
		OrderId:   entry.OrderID,
		UserId:    entry.UserID,
		Credit:    money.FormatPaise(entry.Credit),
		Utr:       optional(entry.Utr),
		Timestamp: entry.Timestamp,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
