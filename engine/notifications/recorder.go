package notifications

import (
	"fmt"

	"github.com/benbjohnson/clock"

	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/module"
	"github.com/covenantnet/covenant-go/module/irrecoverable"
	"github.com/covenantnet/covenant-go/storage"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
)

// Recorder appends events to the persistent log within the calling
// transaction and hands them to the consumer once that transaction commits.
// Sequence numbers are allocated inside the transaction itself, so commit
// order, log order and delivery order always agree, and an aborted call
// leaves no trace in the log.
type Recorder struct {
	events    storage.Events
	sequences storage.Sequences
	clock     clock.Clock
	metrics   module.EngineMetrics
	consumer  EventConsumer
}

func NewRecorder(
	events storage.Events,
	sequences storage.Sequences,
	clk clock.Clock,
	collector module.EngineMetrics,
	consumer EventConsumer,
) *Recorder {
	r := &Recorder{
		events:    events,
		sequences: sequences,
		clock:     clk,
		metrics:   collector,
		consumer:  consumer,
	}
	return r
}

// Append returns an operation appending one event of the given type to the
// log within the caller's transaction. The payload must be one of the typed
// payload structs of the model package.
func (r *Recorder) Append(eventType covenant.EventType, payload interface{}) func(*transaction.Tx) error {
	return func(tx *transaction.Tx) error {
		data, err := covenant.EncodeEventPayload(payload)
		if err != nil {
			return irrecoverable.NewExceptionf("could not encode %s payload: %w", eventType, err)
		}

		var sequence uint64
		err = r.sequences.NextTx(storage.SequenceEventOrdering, &sequence)(tx.DBTxn)
		if err != nil {
			return fmt.Errorf("could not allocate event sequence: %w", err)
		}

		event := &covenant.Event{
			Sequence:  sequence,
			Type:      eventType,
			Payload:   data,
			EmittedAt: r.clock.Now().UTC(),
		}
		err = r.events.StoreTx(event)(tx)
		if err != nil {
			return fmt.Errorf("could not store event: %w", err)
		}

		tx.OnSucceed(func() {
			r.metrics.EventEmitted(string(eventType))
			r.consumer.HandleEvent(event)
		})
		return nil
	}
}
