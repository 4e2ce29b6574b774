package badger_test

import (
	"testing"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covenantnet/covenant-go/storage"
	bstorage "github.com/covenantnet/covenant-go/storage/badger"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
	"github.com/covenantnet/covenant-go/utils/unittest"
)

func TestSessionsStoreUpdateRead(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		store := bstorage.NewSessions(db)

		_, err := store.Retrieve()
		require.ErrorIs(t, err, storage.ErrNotFound)

		expected := unittest.SessionFixture()
		err = transaction.Update(db, store.StoreTx(expected))
		require.NoError(t, err)

		actual, err := store.Retrieve()
		require.NoError(t, err)
		assert.Equal(t, expected, actual)

		expected.EndsAt = expected.EndsAt.Add(2 * time.Hour)
		err = transaction.Update(db, store.UpdateTx(expected))
		require.NoError(t, err)

		actual, err = store.Retrieve()
		require.NoError(t, err)
		assert.Equal(t, expected.EndsAt, actual.EndsAt)

		// only one session record can ever exist
		err = transaction.Update(db, store.StoreTx(unittest.SessionFixture()))
		require.ErrorIs(t, err, storage.ErrAlreadyExists)
	})
}
