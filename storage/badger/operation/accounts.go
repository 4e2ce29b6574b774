package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/model/covenant"
)

func UpsertAccount(account *covenant.Account) func(*badger.Txn) error {
	return upsert(makePrefix(codeAccount, account.Address), account)
}

func RetrieveAccount(address covenant.Address, account *covenant.Account) func(*badger.Txn) error {
	return retrieve(makePrefix(codeAccount, address), account)
}
