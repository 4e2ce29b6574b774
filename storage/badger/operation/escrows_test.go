package operation

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/storage"
	"github.com/covenantnet/covenant-go/utils/unittest"
)

func TestEscrowInsertUpdateRetrieve(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		expected := unittest.EscrowFixture()

		err := db.Update(InsertEscrow(expected))
		require.NoError(t, err)

		var actual covenant.EscrowAgreement
		err = db.View(RetrieveEscrow(expected.ID, &actual))
		require.NoError(t, err)
		assert.Equal(t, expected, &actual)

		expected.State = covenant.EscrowStateReleased
		err = db.Update(UpdateEscrow(expected))
		require.NoError(t, err)

		err = db.View(RetrieveEscrow(expected.ID, &actual))
		require.NoError(t, err)
		assert.Equal(t, covenant.EscrowStateReleased, actual.State)
	})
}

func TestEscrowInsertDuplicate(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		escrow := unittest.EscrowFixture()

		err := db.Update(InsertEscrow(escrow))
		require.NoError(t, err)

		err = db.Update(InsertEscrow(escrow))
		require.ErrorIs(t, err, storage.ErrAlreadyExists)

		err = db.Update(SkipDuplicates(InsertEscrow(escrow)))
		require.NoError(t, err)
	})
}

func TestEscrowRetrieveUpdateMissing(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		var actual covenant.EscrowAgreement
		err := db.View(RetrieveEscrow(42, &actual))
		require.ErrorIs(t, err, storage.ErrNotFound)

		err = db.Update(UpdateEscrow(unittest.EscrowFixture(unittest.WithEscrowID(42))))
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}
