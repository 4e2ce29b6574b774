package storage

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/model/covenant"
)

// Accounts represents persistent storage for the shared balance table.
//
// Accounts is deliberately uncached and works on raw badger transactions:
// one settlement may credit the same account more than once, so every read
// must observe the writes of its own transaction.
type Accounts interface {

	// UpsertTx stores or overwrites the account record.
	UpsertTx(account *covenant.Account) func(*badger.Txn) error

	// RetrieveTx returns the account record within the given transaction,
	// observing that transaction's own writes. Fails with
	// storage.ErrNotFound if the account was never credited.
	RetrieveTx(address covenant.Address, account *covenant.Account) func(*badger.Txn) error

	// ByAddress returns the account record.
	ByAddress(address covenant.Address) (*covenant.Account, error)
}
