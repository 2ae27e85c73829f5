package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager runs a unit of work atomically. The postgres history
// store uses it to upsert the owning user and insert the snapshot together.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
