package storage

// ApiStore defines the complete set of non-privileged operations needed by the API.
type ApiStore interface {
	TransactionStore
	WalletStore
	LedgerReader
}

// Storage defines the root interface for the entire data layer.
// Components should depend on the more granular interfaces (ApiStore, ReconcileStore, etc.)
// instead of this one.
type Storage interface {
	ApiStore
	ApprovalStore
}
