package operation

import (
	"errors"

	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/storage"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
)

// SkipDuplicates returns the wrapped operation with ErrAlreadyExists
// swallowed, turning re-insertion of identical records into a no-op.
func SkipDuplicates(op func(*badger.Txn) error) func(tx *badger.Txn) error {
	return func(tx *badger.Txn) error {
		err := op(tx)
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil
		}
		return err
	}
}

// RetryOnConflict retries the operation whenever badger reports a write
// conflict. Conflicts only arise when the host runs calls concurrently; the
// business logic above this layer never retries anything itself.
func RetryOnConflict(action func(func(*badger.Txn) error) error, op func(tx *badger.Txn) error) error {
	for {
		err := action(op)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return err
	}
}

// RetryOnConflictTx is RetryOnConflict for operations carrying post-commit
// callbacks.
func RetryOnConflictTx(db *badger.DB, action func(*badger.DB, func(*transaction.Tx) error) error, op func(*transaction.Tx) error) error {
	for {
		err := action(db, op)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return err
	}
}
