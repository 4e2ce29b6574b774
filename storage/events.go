package storage

import (
	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
)

// Events represents persistent storage for the append-only event log. The
// engines only ever append; reads exist for external audit consumers.
type Events interface {

	// StoreTx appends an event in a DB transaction. Fails with
	// storage.ErrAlreadyExists if the sequence number is taken.
	StoreTx(event *covenant.Event) func(*transaction.Tx) error

	// BySequence returns the event with the given sequence number.
	BySequence(sequence uint64) (*covenant.Event, error)

	// ByRange returns all events with from <= sequence <= to, in order.
	ByRange(from uint64, to uint64) ([]*covenant.Event, error)

	// ByType returns all events of the given type, in sequence order.
	ByType(eventType covenant.EventType) ([]*covenant.Event, error)
}
