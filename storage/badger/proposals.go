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

// Proposals implements persistent storage for ballot proposals, keyed by
// their insertion position.
type Proposals struct {
	db    *badger.DB
	cache *Cache
}

func NewProposals(collector module.CacheMetrics, db *badger.DB) *Proposals {

	store := func(key interface{}, val interface{}) func(*transaction.Tx) error {
		proposal := val.(*covenant.Proposal)
		return transaction.WithTx(operation.InsertProposal(proposal))
	}

	retrieve := func(key interface{}) func(tx *badger.Txn) (interface{}, error) {
		index := key.(uint64)
		var proposal covenant.Proposal
		return func(tx *badger.Txn) (interface{}, error) {
			err := operation.RetrieveProposal(index, &proposal)(tx)
			return &proposal, err
		}
	}

	p := &Proposals{
		db: db,
		cache: newCache(collector, metrics.ResourceProposal,
			withLimit(100),
			withStore(store),
			withRetrieve(retrieve),
		),
	}

	return p
}

func (p *Proposals) StoreTx(proposal *covenant.Proposal) func(*transaction.Tx) error {
	return p.cache.PutTx(proposal.Index, proposal)
}

func (p *Proposals) UpdateTx(proposal *covenant.Proposal) func(*transaction.Tx) error {
	return func(tx *transaction.Tx) error {
		err := operation.UpdateProposal(proposal)(tx.DBTxn)
		if err != nil {
			return fmt.Errorf("could not update proposal: %w", err)
		}
		tx.OnSucceed(func() {
			p.cache.Insert(proposal.Index, proposal)
		})
		return nil
	}
}

func (p *Proposals) retrieveTx(index uint64) func(tx *badger.Txn) (*covenant.Proposal, error) {
	return func(tx *badger.Txn) (*covenant.Proposal, error) {
		val, err := p.cache.Get(index)(tx)
		if err != nil {
			return nil, err
		}
		return val.(*covenant.Proposal), nil
	}
}

func (p *Proposals) ByIndex(index uint64) (*covenant.Proposal, error) {
	tx := p.db.NewTransaction(false)
	defer tx.Discard()
	return p.retrieveTx(index)(tx)
}

// All returns all proposals in index order, bypassing the cache.
func (p *Proposals) All() ([]*covenant.Proposal, error) {
	var proposals []*covenant.Proposal
	err := p.db.View(operation.LookupProposals(&proposals))
	if err != nil {
		return nil, fmt.Errorf("could not lookup proposals: %w", err)
	}
	return proposals, nil
}
