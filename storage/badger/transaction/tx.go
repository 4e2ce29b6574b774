package transaction

import (
	dbbadger "github.com/dgraph-io/badger/v2"
)

// Tx wraps a badger transaction and adds a slice of callbacks. The callbacks
// are executed after the badger transaction completed _successfully_.
//
// CAUTION:
//   - Tx is stateful (calls to `OnSucceed` change its internal state of
//     `callbacks`), so it must be passed as a pointer.
//   - Do not instantiate Tx outside this package. Use `Update` or `View`,
//     which drive the transaction and take care of executing the callbacks.
type Tx struct {
	DBTxn     *dbbadger.Txn
	callbacks []func()
}

// OnSucceed adds a callback to execute after the transaction has been
// successfully committed.
func (b *Tx) OnSucceed(callback func()) {
	b.callbacks = append(b.callbacks, callback)
}

// Update creates a read-write badger transaction and passes it to the given
// function. If the function succeeds, the transaction is committed and the
// scheduled callbacks run; any error discards the transaction unchanged.
func Update(db *dbbadger.DB, f func(*Tx) error) error {
	dbTxn := db.NewTransaction(true)
	defer dbTxn.Discard()

	tx := &Tx{DBTxn: dbTxn}
	err := f(tx)
	if err != nil {
		return err
	}

	err = dbTxn.Commit()
	if err != nil {
		return err
	}

	for _, callback := range tx.callbacks {
		callback()
	}
	return nil
}

// View creates a read-only badger transaction and passes it to the given
// function. Callbacks still run on success, so cached reads behave the same
// in both modes.
func View(db *dbbadger.DB, f func(*Tx) error) error {
	dbTxn := db.NewTransaction(false)
	defer dbTxn.Discard()

	tx := &Tx{DBTxn: dbTxn}
	err := f(tx)
	if err != nil {
		return err
	}

	for _, callback := range tx.callbacks {
		callback()
	}
	return nil
}

// WithTx converts a badger transaction operation into a Tx operation.
func WithTx(op func(*dbbadger.Txn) error) func(*Tx) error {
	return func(tx *Tx) error {
		return op(tx.DBTxn)
	}
}
