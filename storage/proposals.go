package storage

import (
	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
)

// Proposals represents persistent storage for ballot proposals, indexed by
// their insertion position.
type Proposals interface {

	// StoreTx stores a new proposal in a DB transaction while going through
	// the cache. Fails with storage.ErrAlreadyExists if the index is taken.
	StoreTx(proposal *covenant.Proposal) func(*transaction.Tx) error

	// UpdateTx overwrites an existing proposal in a DB transaction while
	// going through the cache. Fails with storage.ErrNotFound if missing.
	UpdateTx(proposal *covenant.Proposal) func(*transaction.Tx) error

	// ByIndex returns the proposal at the given position.
	ByIndex(index uint64) (*covenant.Proposal, error)

	// All returns all proposals in index order.
	All() ([]*covenant.Proposal, error)
}
