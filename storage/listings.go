package storage

import (
	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
)

// Listings represents persistent storage for marketplace listings, keyed by
// token. Relisting a token overwrites its previous, deactivated record.
type Listings interface {

	// UpsertTx stores or overwrites the listing for its token in a DB
	// transaction while going through the cache.
	UpsertTx(listing *covenant.Listing) func(*transaction.Tx) error

	// ByTokenID returns the listing for the given token.
	ByTokenID(tokenID uint64) (*covenant.Listing, error)
}
