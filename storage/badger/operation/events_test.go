package operation

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/utils/unittest"
)

func TestEventInsertRetrieve(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		expected := unittest.EventFixture(covenant.EventEscrowCreated, 1)

		err := db.Update(InsertEvent(expected))
		require.NoError(t, err)

		var actual covenant.Event
		err = db.View(RetrieveEvent(1, &actual))
		require.NoError(t, err)
		assert.Equal(t, expected, &actual)
	})
}

func TestLookupEvents(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		types := []covenant.EventType{
			covenant.EventEscrowCreated,
			covenant.EventVoteCast,
			covenant.EventEscrowCreated,
			covenant.EventItemSold,
			covenant.EventEscrowCreated,
		}
		events := make([]*covenant.Event, 0, len(types))
		err := db.Update(func(tx *badger.Txn) error {
			for i, eventType := range types {
				event := unittest.EventFixture(eventType, uint64(i+1))
				events = append(events, event)
				if err := InsertEvent(event)(tx); err != nil {
					return err
				}
			}
			return nil
		})
		require.NoError(t, err)

		t.Run("range is inclusive on both bounds", func(t *testing.T) {
			var actual []*covenant.Event
			err := db.View(LookupEventsInRange(2, 4, &actual))
			require.NoError(t, err)
			assert.Equal(t, events[1:4], actual)
		})

		t.Run("range beyond the log returns what exists", func(t *testing.T) {
			var actual []*covenant.Event
			err := db.View(LookupEventsInRange(4, 100, &actual))
			require.NoError(t, err)
			assert.Equal(t, events[3:], actual)
		})

		t.Run("by type preserves emission order", func(t *testing.T) {
			var actual []*covenant.Event
			err := db.View(LookupEventsByType(covenant.EventEscrowCreated, &actual))
			require.NoError(t, err)
			assert.Equal(t, []*covenant.Event{events[0], events[2], events[4]}, actual)
		})

		t.Run("by type with no matches returns empty", func(t *testing.T) {
			var actual []*covenant.Event
			err := db.View(LookupEventsByType(covenant.EventVotingFinalized, &actual))
			require.NoError(t, err)
			assert.Empty(t, actual)
		})
	})
}
