package models

import (
	"time"
)

// TransactionStatus defines the possible states of a top-up transaction.
type TransactionStatus string

const (
	PENDING  TransactionStatus = "pending"
	APPROVED TransactionStatus = "approved"
	REJECTED TransactionStatus = "rejected"
)

// Transaction represents one payment attempt against the gateway.
// Amounts are stored in paise.
type Transaction struct {
	OrderId        string            `dynamodbav:"order_id"`
	UserId         string            `dynamodbav:"user_id"`
	Amount         int64             `dynamodbav:"amount"`
	Status         TransactionStatus `dynamodbav:"status"`
	CustomerMobile string            `dynamodbav:"customer_mobile,omitempty"`
	Utr            string            `dynamodbav:"utr,omitempty"`
	ProcessedAt    *time.Time        `dynamodbav:"processed_at,omitempty"`
	CreatedAt      time.Time         `dynamodbav:"created_at"`
	UpdatedAt      time.Time         `dynamodbav:"updated_at"`
}

// Wallet holds a user's balance in paise.
type Wallet struct {
	UserId    string    `dynamodbav:"user_id"`
	Balance   int64     `dynamodbav:"balance"`
	Version   int64     `dynamodbav:"version"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

// LedgerEntry records a single wallet credit caused by an approved transaction.
type LedgerEntry struct {
	EntryID   string    `dynamodbav:"entry_id"`
	OrderID   string    `dynamodbav:"order_id"`
	UserID    string    `dynamodbav:"user_id"`
	Credit    int64     `dynamodbav:"credit"`
	Utr       string    `dynamodbav:"utr,omitempty"`
	Timestamp time.Time `dynamodbav:"timestamp"`
}

// Approval is the unit of work that moves a pending transaction to approved
// and credits the owner's wallet with the stored amount.
type Approval struct {
	OrderID     string
	UserID      string
	Amount      int64
	Utr         string
	ProcessedAt time.Time
}
