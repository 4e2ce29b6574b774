package storage

import (
	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
)

// Voters represents persistent storage for voter records.
type Voters interface {

	// StoreTx stores a new voter in a DB transaction while going through the
	// cache. Fails with storage.ErrAlreadyExists if already registered.
	StoreTx(voter *covenant.Voter) func(*transaction.Tx) error

	// UpdateTx overwrites an existing voter in a DB transaction while going
	// through the cache. Fails with storage.ErrNotFound if missing.
	UpdateTx(voter *covenant.Voter) func(*transaction.Tx) error

	// ByAddress returns the voter with the given address.
	ByAddress(address covenant.Address) (*covenant.Voter, error)

	// Count returns the number of registered voters.
	Count() (uint64, error)
}
