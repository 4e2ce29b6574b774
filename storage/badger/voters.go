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

// Voters implements persistent storage for voter records, keyed by address.
type Voters struct {
	db    *badger.DB
	cache *Cache
}

func NewVoters(collector module.CacheMetrics, db *badger.DB) *Voters {

	store := func(key interface{}, val interface{}) func(*transaction.Tx) error {
		voter := val.(*covenant.Voter)
		return transaction.WithTx(operation.InsertVoter(voter))
	}

	retrieve := func(key interface{}) func(tx *badger.Txn) (interface{}, error) {
		address := key.(covenant.Address)
		var voter covenant.Voter
		return func(tx *badger.Txn) (interface{}, error) {
			err := operation.RetrieveVoter(address, &voter)(tx)
			return &voter, err
		}
	}

	v := &Voters{
		db: db,
		cache: newCache(collector, metrics.ResourceVoter,
			withLimit(DefaultCacheSize),
			withStore(store),
			withRetrieve(retrieve),
		),
	}

	return v
}

func (v *Voters) StoreTx(voter *covenant.Voter) func(*transaction.Tx) error {
	return v.cache.PutTx(voter.Address, voter)
}

func (v *Voters) UpdateTx(voter *covenant.Voter) func(*transaction.Tx) error {
	return func(tx *transaction.Tx) error {
		err := operation.UpdateVoter(voter)(tx.DBTxn)
		if err != nil {
			return fmt.Errorf("could not update voter: %w", err)
		}
		tx.OnSucceed(func() {
			v.cache.Insert(voter.Address, voter)
		})
		return nil
	}
}

func (v *Voters) retrieveTx(address covenant.Address) func(tx *badger.Txn) (*covenant.Voter, error) {
	return func(tx *badger.Txn) (*covenant.Voter, error) {
		val, err := v.cache.Get(address)(tx)
		if err != nil {
			return nil, err
		}
		return val.(*covenant.Voter), nil
	}
}

func (v *Voters) ByAddress(address covenant.Address) (*covenant.Voter, error) {
	tx := v.db.NewTransaction(false)
	defer tx.Discard()
	return v.retrieveTx(address)(tx)
}

func (v *Voters) Count() (uint64, error) {
	var count uint64
	err := v.db.View(operation.CountVoters(&count))
	if err != nil {
		return 0, fmt.Errorf("could not count voters: %w", err)
	}
	return count, nil
}
