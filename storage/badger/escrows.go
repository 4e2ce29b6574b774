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

// Escrows implements persistent storage for escrow agreements, keyed by
// their sequential ID.
type Escrows struct {
	db    *badger.DB
	cache *Cache
}

func NewEscrows(collector module.CacheMetrics, db *badger.DB) *Escrows {

	store := func(key interface{}, val interface{}) func(*transaction.Tx) error {
		escrow := val.(*covenant.EscrowAgreement)
		return transaction.WithTx(operation.InsertEscrow(escrow))
	}

	retrieve := func(key interface{}) func(tx *badger.Txn) (interface{}, error) {
		escrowID := key.(uint64)
		var escrow covenant.EscrowAgreement
		return func(tx *badger.Txn) (interface{}, error) {
			err := operation.RetrieveEscrow(escrowID, &escrow)(tx)
			return &escrow, err
		}
	}

	e := &Escrows{
		db: db,
		cache: newCache(collector, metrics.ResourceEscrow,
			withLimit(DefaultCacheSize),
			withStore(store),
			withRetrieve(retrieve),
		),
	}

	return e
}

func (e *Escrows) StoreTx(escrow *covenant.EscrowAgreement) func(*transaction.Tx) error {
	return e.cache.PutTx(escrow.ID, escrow)
}

func (e *Escrows) UpdateTx(escrow *covenant.EscrowAgreement) func(*transaction.Tx) error {
	return func(tx *transaction.Tx) error {
		err := operation.UpdateEscrow(escrow)(tx.DBTxn)
		if err != nil {
			return fmt.Errorf("could not update escrow: %w", err)
		}
		tx.OnSucceed(func() {
			e.cache.Insert(escrow.ID, escrow)
		})
		return nil
	}
}

func (e *Escrows) retrieveTx(escrowID uint64) func(tx *badger.Txn) (*covenant.EscrowAgreement, error) {
	return func(tx *badger.Txn) (*covenant.EscrowAgreement, error) {
		val, err := e.cache.Get(escrowID)(tx)
		if err != nil {
			return nil, err
		}
		return val.(*covenant.EscrowAgreement), nil
	}
}

func (e *Escrows) ByID(escrowID uint64) (*covenant.EscrowAgreement, error) {
	tx := e.db.NewTransaction(false)
	defer tx.Discard()
	return e.retrieveTx(escrowID)(tx)
}
