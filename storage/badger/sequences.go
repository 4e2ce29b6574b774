package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/storage"
	"github.com/covenantnet/covenant-go/storage/badger/operation"
)

// Sequences implements persistent, named uint64 sequences. Allocation runs
// inside the caller's transaction, so an aborted call never burns a number
// and committed allocations stay gapless.
type Sequences struct {
	db *badger.DB
}

func NewSequences(db *badger.DB) *Sequences {
	s := Sequences{
		db: db,
	}
	return &s
}

func (s *Sequences) NextTx(name string, next *uint64) func(*badger.Txn) error {
	return operation.NextSequence(name, next)
}

func (s *Sequences) Current(name string) (uint64, error) {
	var value uint64
	err := s.db.View(operation.RetrieveSequence(name, &value))
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("could not retrieve sequence %s: %w", name, err)
	}
	return value, nil
}
