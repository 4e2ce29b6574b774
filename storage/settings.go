package storage

import (
	"github.com/dgraph-io/badger/v2"
)

// Setting names persisted by the engines.
const (
	SettingPlatformFeeBps = "platform_fee_bps"
)

// Settings represents persistent storage for named uint64 settings that must
// update transactionally with the operations reading them.
type Settings interface {

	// SetTx writes the named setting within the given transaction.
	SetTx(name string, value uint64) func(*badger.Txn) error

	// RetrieveTx reads the named setting within the given transaction. Fails
	// with storage.ErrNotFound if it was never set.
	RetrieveTx(name string, value *uint64) func(*badger.Txn) error

	// Retrieve reads the named setting outside any transaction.
	Retrieve(name string) (uint64, error)
}
