package notifications_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covenantnet/covenant-go/engine/notifications"
	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/module/metrics"
	bstorage "github.com/covenantnet/covenant-go/storage/badger"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
	"github.com/covenantnet/covenant-go/utils/unittest"
)

// capturingConsumer collects delivered events for assertions.
type capturingConsumer struct {
	mu     sync.Mutex
	events []*covenant.Event
}

func (c *capturingConsumer) HandleEvent(event *covenant.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *capturingConsumer) All() []*covenant.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*covenant.Event(nil), c.events...)
}

func runWithRecorder(t *testing.T, f func(recorder *notifications.Recorder, events *bstorage.Events, consumer *capturingConsumer, db *badger.DB)) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		collector := metrics.NewNoopCollector()
		events := bstorage.NewEvents(db)
		sequences := bstorage.NewSequences(db)
		consumer := &capturingConsumer{}
		recorder := notifications.NewRecorder(events, sequences, clock.NewMock(), collector, consumer)
		f(recorder, events, consumer, db)
	})
}

func TestRecorderAppendsInCommitOrder(t *testing.T) {
	runWithRecorder(t, func(recorder *notifications.Recorder, events *bstorage.Events, consumer *capturingConsumer, db *badger.DB) {
		err := transaction.Update(db, func(tx *transaction.Tx) error {
			err := recorder.Append(covenant.EventFundsCredited, &covenant.FundsCreditedPayload{Amount: 1})(tx)
			if err != nil {
				return err
			}
			return recorder.Append(covenant.EventFundsWithdrawn, &covenant.FundsWithdrawnPayload{Amount: 1})(tx)
		})
		require.NoError(t, err)

		log, err := events.ByRange(1, 10)
		require.NoError(t, err)
		require.Len(t, log, 2)
		assert.Equal(t, uint64(1), log[0].Sequence)
		assert.Equal(t, covenant.EventFundsCredited, log[0].Type)
		assert.Equal(t, uint64(2), log[1].Sequence)
		assert.Equal(t, covenant.EventFundsWithdrawn, log[1].Type)

		// delivery happens after commit, in log order
		delivered := consumer.All()
		require.Len(t, delivered, 2)
		assert.Equal(t, uint64(1), delivered[0].Sequence)
		assert.Equal(t, uint64(2), delivered[1].Sequence)
	})
}

func TestRecorderAbortLeavesNoTrace(t *testing.T) {
	runWithRecorder(t, func(recorder *notifications.Recorder, events *bstorage.Events, consumer *capturingConsumer, db *badger.DB) {
		failure := errors.New("subsequent operation failed")
		err := transaction.Update(db, func(tx *transaction.Tx) error {
			err := recorder.Append(covenant.EventFundsCredited, &covenant.FundsCreditedPayload{Amount: 1})(tx)
			require.NoError(t, err)
			return failure
		})
		require.ErrorIs(t, err, failure)

		log, err := events.ByRange(1, 10)
		require.NoError(t, err)
		assert.Empty(t, log)
		assert.Empty(t, consumer.All())

		// the aborted append burned no sequence number
		err = transaction.Update(db, func(tx *transaction.Tx) error {
			return recorder.Append(covenant.EventFundsCredited, &covenant.FundsCreditedPayload{Amount: 2})(tx)
		})
		require.NoError(t, err)

		log, err = events.ByRange(1, 10)
		require.NoError(t, err)
		require.Len(t, log, 1)
		assert.Equal(t, uint64(1), log[0].Sequence)
	})
}

func TestRecorderDeliversDecodablePayload(t *testing.T) {
	runWithRecorder(t, func(recorder *notifications.Recorder, events *bstorage.Events, consumer *capturingConsumer, db *badger.DB) {
		payee := unittest.RandomAddressFixture()
		err := transaction.Update(db, func(tx *transaction.Tx) error {
			return recorder.Append(covenant.EventFundsCredited, &covenant.FundsCreditedPayload{
				Payee:   payee,
				Amount:  42,
				Balance: 42,
			})(tx)
		})
		require.NoError(t, err)

		delivered := consumer.All()
		require.Len(t, delivered, 1)

		var payload covenant.FundsCreditedPayload
		require.NoError(t, covenant.DecodeEventPayload(delivered[0].Payload, &payload))
		assert.Equal(t, payee, payload.Payee)
		assert.Equal(t, uint64(42), payload.Amount)
	})
}
