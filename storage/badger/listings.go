package badger

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/module"
	"github.com/covenantnet/covenant-go/module/metrics"
	"github.com/covenantnet/covenant-go/storage/badger/operation"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
)

// Listings implements persistent storage for marketplace listings, keyed by
// token. Relisting a token overwrites its previous, deactivated record, so
// writes always go through upsert.
type Listings struct {
	db    *badger.DB
	cache *Cache
}

func NewListings(collector module.CacheMetrics, db *badger.DB) *Listings {

	store := func(key interface{}, val interface{}) func(*transaction.Tx) error {
		listing := val.(*covenant.Listing)
		return transaction.WithTx(operation.UpsertListing(listing))
	}

	retrieve := func(key interface{}) func(tx *badger.Txn) (interface{}, error) {
		tokenID := key.(uint64)
		var listing covenant.Listing
		return func(tx *badger.Txn) (interface{}, error) {
			err := operation.RetrieveListing(tokenID, &listing)(tx)
			return &listing, err
		}
	}

	l := &Listings{
		db: db,
		cache: newCache(collector, metrics.ResourceListing,
			withLimit(DefaultCacheSize),
			withStore(store),
			withRetrieve(retrieve),
		),
	}

	return l
}

func (l *Listings) UpsertTx(listing *covenant.Listing) func(*transaction.Tx) error {
	return l.cache.PutTx(listing.TokenID, listing)
}

func (l *Listings) retrieveTx(tokenID uint64) func(tx *badger.Txn) (*covenant.Listing, error) {
	return func(tx *badger.Txn) (*covenant.Listing, error) {
		val, err := l.cache.Get(tokenID)(tx)
		if err != nil {
			return nil, err
		}
		return val.(*covenant.Listing), nil
	}
}

func (l *Listings) ByTokenID(tokenID uint64) (*covenant.Listing, error) {
	tx := l.db.NewTransaction(false)
	defer tx.Discard()
	return l.retrieveTx(tokenID)(tx)
}
