package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/storage/badger/operation"
)

// Accounts implements persistent storage for the shared balance table.
//
// Accounts is deliberately uncached and operates on raw badger transactions:
// one settlement may credit the same account more than once, so every read
// must observe the writes of its own transaction. A write-through cache would
// serve the pre-transaction value instead.
type Accounts struct {
	db *badger.DB
}

func NewAccounts(db *badger.DB) *Accounts {
	a := Accounts{
		db: db,
	}
	return &a
}

func (a *Accounts) UpsertTx(account *covenant.Account) func(*badger.Txn) error {
	return operation.UpsertAccount(account)
}

func (a *Accounts) RetrieveTx(address covenant.Address, account *covenant.Account) func(*badger.Txn) error {
	return operation.RetrieveAccount(address, account)
}

func (a *Accounts) ByAddress(address covenant.Address) (*covenant.Account, error) {
	var account covenant.Account
	err := a.db.View(operation.RetrieveAccount(address, &account))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve account: %w", err)
	}
	return &account, nil
}
