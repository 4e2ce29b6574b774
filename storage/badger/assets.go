package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/module"
	"github.com/covenantnet/covenant-go/module/metrics"
	"github.com/covenantnet/covenant-go/storage/badger/operation"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
)

// Assets implements persistent storage for the asset registry, keyed by
// token ID.
type Assets struct {
	db    *badger.DB
	cache *Cache
}

func NewAssets(collector module.CacheMetrics, db *badger.DB) *Assets {

	store := func(key interface{}, val interface{}) func(*transaction.Tx) error {
		asset := val.(*covenant.Asset)
		return transaction.WithTx(operation.InsertAsset(asset))
	}

	retrieve := func(key interface{}) func(tx *badger.Txn) (interface{}, error) {
		tokenID := key.(uint64)
		var asset covenant.Asset
		return func(tx *badger.Txn) (interface{}, error) {
			err := operation.RetrieveAsset(tokenID, &asset)(tx)
			return &asset, err
		}
	}

	a := &Assets{
		db: db,
		cache: newCache(collector, metrics.ResourceAsset,
			withLimit(DefaultCacheSize),
			withStore(store),
			withRetrieve(retrieve),
		),
	}

	return a
}

func (a *Assets) StoreTx(asset *covenant.Asset) func(*transaction.Tx) error {
	return a.cache.PutTx(asset.TokenID, asset)
}

func (a *Assets) UpdateTx(asset *covenant.Asset) func(*transaction.Tx) error {
	return func(tx *transaction.Tx) error {
		err := operation.UpdateAsset(asset)(tx.DBTxn)
		if err != nil {
			return fmt.Errorf("could not update asset: %w", err)
		}
		tx.OnSucceed(func() {
			a.cache.Insert(asset.TokenID, asset)
		})
		return nil
	}
}

func (a *Assets) retrieveTx(tokenID uint64) func(tx *badger.Txn) (*covenant.Asset, error) {
	return func(tx *badger.Txn) (*covenant.Asset, error) {
		val, err := a.cache.Get(tokenID)(tx)
		if err != nil {
			return nil, err
		}
		return val.(*covenant.Asset), nil
	}
}

func (a *Assets) ByTokenID(tokenID uint64) (*covenant.Asset, error) {
	tx := a.db.NewTransaction(false)
	defer tx.Discard()
	return a.retrieveTx(tokenID)(tx)
}
