package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/storage/badger/operation"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
)

// Events implements persistent storage for the append-only event log. The
// log is write-mostly with no read locality, so it is not cached.
type Events struct {
	db *badger.DB
}

func NewEvents(db *badger.DB) *Events {
	e := Events{
		db: db,
	}
	return &e
}

func (e *Events) StoreTx(event *covenant.Event) func(*transaction.Tx) error {
	return transaction.WithTx(operation.InsertEvent(event))
}

func (e *Events) BySequence(sequence uint64) (*covenant.Event, error) {
	var event covenant.Event
	err := e.db.View(operation.RetrieveEvent(sequence, &event))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve event: %w", err)
	}
	return &event, nil
}

func (e *Events) ByRange(from uint64, to uint64) ([]*covenant.Event, error) {
	var events []*covenant.Event
	err := e.db.View(operation.LookupEventsInRange(from, to, &events))
	if err != nil {
		return nil, fmt.Errorf("could not lookup events: %w", err)
	}
	return events, nil
}

func (e *Events) ByType(eventType covenant.EventType) ([]*covenant.Event, error) {
	var events []*covenant.Event
	err := e.db.View(operation.LookupEventsByType(eventType, &events))
	if err != nil {
		return nil, fmt.Errorf("could not lookup events by type: %w", err)
	}
	return events, nil
}
