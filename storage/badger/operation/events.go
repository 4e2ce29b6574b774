package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/model/covenant"
)

func InsertEvent(event *covenant.Event) func(*badger.Txn) error {
	return insert(makePrefix(codeEvent, event.Sequence), event)
}

func RetrieveEvent(sequence uint64, event *covenant.Event) func(*badger.Txn) error {
	return retrieve(makePrefix(codeEvent, sequence), event)
}

// LookupEventsInRange returns all events with from <= sequence <= to.
// Sequence keys are big-endian, so traversal yields emission order.
func LookupEventsInRange(from uint64, to uint64, events *[]*covenant.Event) func(*badger.Txn) error {
	iterationFunc := eventFilterIterationFunc(events, func(event *covenant.Event) bool {
		return event.Sequence >= from && event.Sequence <= to
	})
	return traverse(makePrefix(codeEvent), iterationFunc)
}

// LookupEventsByType returns all events of the given type in emission order.
func LookupEventsByType(eventType covenant.EventType, events *[]*covenant.Event) func(*badger.Txn) error {
	iterationFunc := eventFilterIterationFunc(events, func(event *covenant.Event) bool {
		return event.Type == eventType
	})
	return traverse(makePrefix(codeEvent), iterationFunc)
}

// eventFilterIterationFunc returns an iteration function which filters the
// traversed events with the given predicate in the handleFunc.
func eventFilterIterationFunc(events *[]*covenant.Event, match func(*covenant.Event) bool) iterationFunc {
	*events = make([]*covenant.Event, 0, len(*events))
	return func() (checkFunc, createFunc, handleFunc) {
		check := func(key []byte) bool {
			return true
		}
		var val covenant.Event
		create := func() interface{} {
			return &val
		}
		handle := func() error {
			if match(&val) {
				event := val
				*events = append(*events, &event)
			}
			return nil
		}
		return check, create, handle
	}
}
