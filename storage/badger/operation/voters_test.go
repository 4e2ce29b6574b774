package operation

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/utils/unittest"
)

func TestVoterInsertExistsRetrieve(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		expected := unittest.VoterFixture()

		var registered bool
		err := db.View(ExistsVoter(expected.Address, &registered))
		require.NoError(t, err)
		assert.False(t, registered)

		err = db.Update(InsertVoter(expected))
		require.NoError(t, err)

		err = db.View(ExistsVoter(expected.Address, &registered))
		require.NoError(t, err)
		assert.True(t, registered)

		var actual covenant.Voter
		err = db.View(RetrieveVoter(expected.Address, &actual))
		require.NoError(t, err)
		assert.Equal(t, expected, &actual)

		expected.Voted = true
		expected.Choice = 3
		err = db.Update(UpdateVoter(expected))
		require.NoError(t, err)

		err = db.View(RetrieveVoter(expected.Address, &actual))
		require.NoError(t, err)
		assert.Equal(t, expected, &actual)
	})
}

func TestCountVoters(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		var count uint64
		err := db.View(CountVoters(&count))
		require.NoError(t, err)
		assert.Equal(t, uint64(0), count)

		for i := 0; i < 3; i++ {
			err = db.Update(InsertVoter(unittest.VoterFixture()))
			require.NoError(t, err)
		}

		err = db.View(CountVoters(&count))
		require.NoError(t, err)
		assert.Equal(t, uint64(3), count)
	})
}
