package operation

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/utils/unittest"
)

func TestListingUpsertRetrieve(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		expected := unittest.ListingFixture()

		err := db.Update(UpsertListing(expected))
		require.NoError(t, err)

		var actual covenant.Listing
		err = db.View(RetrieveListing(expected.TokenID, &actual))
		require.NoError(t, err)
		assert.Equal(t, expected, &actual)

		// relisting the same token overwrites the previous listing
		expected.Price = expected.Price * 2
		expected.Seller = unittest.RandomAddressFixture()
		err = db.Update(UpsertListing(expected))
		require.NoError(t, err)

		err = db.View(RetrieveListing(expected.TokenID, &actual))
		require.NoError(t, err)
		assert.Equal(t, expected, &actual)
	})
}
