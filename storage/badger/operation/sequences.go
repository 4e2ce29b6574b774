package operation

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/storage"
)

// NextSequence increments the named sequence within the given transaction and
// returns the allocated value through next. The first allocation yields 1.
// Concurrent allocations of the same sequence conflict at commit and must be
// retried by the caller.
func NextSequence(name string, next *uint64) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		var current uint64
		err := retrieve(makePrefix(codeSequence, name), &current)(tx)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("could not retrieve sequence %s: %w", name, err)
		}
		*next = current + 1
		return upsert(makePrefix(codeSequence, name), *next)(tx)
	}
}

// RetrieveSequence retrieves the last allocated value of the named sequence.
func RetrieveSequence(name string, value *uint64) func(*badger.Txn) error {
	return retrieve(makePrefix(codeSequence, name), value)
}
