package storage

import "errors"

// ErrTransactionNotFound is returned when no transaction matches the lookup, including
// lookups filtered on the pending status.
var ErrTransactionNotFound = errors.New("transaction not found")

// ErrTransactionNotPending is returned when a conditional approval loses because the
// transaction already left the pending state.
var ErrTransactionNotPending = errors.New("transaction is no longer pending")

// ErrDuplicateOrder is returned when a transaction with the same order ID already exists.
var ErrDuplicateOrder = errors.New("order already exists")

// ErrWalletNotFound is returned when a user has no wallet yet.
var ErrWalletNotFound = errors.New("wallet not found")

// ErrContention is returned when a commit was cancelled by a concurrent writer or throttled.
// Callers may retry.
var ErrContention = errors.New("store contention")

// ErrStoreUnavailable is returned when the underlying store could not be reached.
var ErrStoreUnavailable = errors.New("store unavailable")
