package storage

import (
	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
)

// Assets represents persistent storage for the asset registry.
type Assets interface {

	// StoreTx stores a newly minted asset in a DB transaction while going
	// through the cache. Fails with storage.ErrAlreadyExists if the token ID
	// is taken.
	StoreTx(asset *covenant.Asset) func(*transaction.Tx) error

	// UpdateTx overwrites an existing asset in a DB transaction while going
	// through the cache. Fails with storage.ErrNotFound if missing.
	UpdateTx(asset *covenant.Asset) func(*transaction.Tx) error

	// ByTokenID returns the asset with the given token ID.
	ByTokenID(tokenID uint64) (*covenant.Asset, error)
}
