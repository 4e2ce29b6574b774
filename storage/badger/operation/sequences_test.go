package operation

import (
	"fmt"
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covenantnet/covenant-go/storage"
	"github.com/covenantnet/covenant-go/utils/unittest"
)

func TestNextSequence(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		var value uint64
		err := db.View(RetrieveSequence("escrow_id", &value))
		require.ErrorIs(t, err, storage.ErrNotFound)

		for want := uint64(1); want <= 3; want++ {
			var next uint64
			err := db.Update(NextSequence("escrow_id", &next))
			require.NoError(t, err)
			assert.Equal(t, want, next)
		}

		// sequences with different names do not interfere
		var next uint64
		err = db.Update(NextSequence("token_id", &next))
		require.NoError(t, err)
		assert.Equal(t, uint64(1), next)

		err = db.View(RetrieveSequence("escrow_id", &value))
		require.NoError(t, err)
		assert.Equal(t, uint64(3), value)
	})
}

// An aborted transaction must not burn sequence numbers, so committed
// allocations stay gapless.
func TestNextSequenceRollback(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		var next uint64
		err := db.Update(NextSequence("escrow_id", &next))
		require.NoError(t, err)
		assert.Equal(t, uint64(1), next)

		errRollback := fmt.Errorf("operation rejected")
		err = db.Update(func(tx *badger.Txn) error {
			var burned uint64
			if err := NextSequence("escrow_id", &burned)(tx); err != nil {
				return err
			}
			return errRollback
		})
		require.ErrorIs(t, err, errRollback)

		err = db.Update(NextSequence("escrow_id", &next))
		require.NoError(t, err)
		assert.Equal(t, uint64(2), next)
	})
}
