package storage

import (
	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
)

// Escrows represents persistent storage for escrow agreements.
type Escrows interface {

	// StoreTx stores a new agreement in a DB transaction while going through
	// the cache. Fails with storage.ErrAlreadyExists if the ID is taken.
	StoreTx(escrow *covenant.EscrowAgreement) func(*transaction.Tx) error

	// UpdateTx overwrites an existing agreement in a DB transaction while
	// going through the cache. Fails with storage.ErrNotFound if missing.
	UpdateTx(escrow *covenant.EscrowAgreement) func(*transaction.Tx) error

	// ByID returns the agreement by its sequential ID.
	ByID(escrowID uint64) (*covenant.EscrowAgreement, error)
}
