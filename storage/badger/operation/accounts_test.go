package operation

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/utils/unittest"
)

func TestAccountUpsertRetrieve(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		expected := unittest.AccountFixture()

		err := db.Update(UpsertAccount(expected))
		require.NoError(t, err)

		var actual covenant.Account
		err = db.View(RetrieveAccount(expected.Address, &actual))
		require.NoError(t, err)
		assert.Equal(t, expected, &actual)
	})
}

// Crediting the same account twice within one transaction must observe the
// first write, so settlements where multiple payees coincide accumulate
// instead of clobbering each other.
func TestAccountReadOwnWrite(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		address := unittest.RandomAddressFixture()

		err := db.Update(func(tx *badger.Txn) error {
			account := covenant.Account{Address: address, PendingWithdrawal: 100}
			err := UpsertAccount(&account)(tx)
			require.NoError(t, err)

			var inTx covenant.Account
			err = RetrieveAccount(address, &inTx)(tx)
			require.NoError(t, err)
			assert.Equal(t, uint64(100), inTx.PendingWithdrawal)

			inTx.PendingWithdrawal += 50
			return UpsertAccount(&inTx)(tx)
		})
		require.NoError(t, err)

		var actual covenant.Account
		err = db.View(RetrieveAccount(address, &actual))
		require.NoError(t, err)
		assert.Equal(t, uint64(150), actual.PendingWithdrawal)
	})
}
