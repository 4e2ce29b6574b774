package operation

import (
	"github.com/dgraph-io/badger/v2"
)

func UpsertSetting(name string, value uint64) func(*badger.Txn) error {
	return upsert(makePrefix(codeSetting, name), value)
}

func RetrieveSetting(name string, value *uint64) func(*badger.Txn) error {
	return retrieve(makePrefix(codeSetting, name), value)
}
