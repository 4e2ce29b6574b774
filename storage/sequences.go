package storage

import (
	"github.com/dgraph-io/badger/v2"
)

// Sequence names used across the engines. Every sequential ID in the system
// is drawn from one of these.
const (
	SequenceEscrowID      = "escrow_id"
	SequenceTokenID       = "token_id"
	SequenceEventOrdering = "event_ordering"
)

// Sequences represents persistent, named uint64 sequences. Allocation happens
// inside the caller's transaction: an aborted call never burns a number, so
// committed IDs stay gapless.
type Sequences interface {

	// NextTx allocates the next value of the named sequence within the given
	// transaction, starting at 1.
	NextTx(name string, next *uint64) func(*badger.Txn) error

	// Current returns the most recently allocated value, or 0 if the
	// sequence was never used.
	Current(name string) (uint64, error)
}
