package marketplace_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/utils/unittest"
)

// TestSaleSettlementConservation checks that every sale splits the price
// exactly: seller proceeds, platform fee and creator royalty always sum to
// the listed price, whatever the price, the configured fee rate, the kind of
// sale or the overpayment pushed back to the buyer.
func TestSaleSettlementConservation(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		rapid.Check(t, func(rt *rapid.T) {
			price := rapid.Uint64Range(1, 1_000_000_000).Draw(rt, "price")
			feeBps := rapid.Uint64Range(0, covenant.MaxPlatformFeeBps).Draw(rt, "fee_bps")
			excess := rapid.Uint64Range(0, 1_000_000).Draw(rt, "excess")
			secondary := rapid.Bool().Draw(rt, "secondary")

			require.NoError(rt, h.engine.UpdatePlatformFee(h.platform, feeBps))

			creator := unittest.RandomAddressFixture()
			buyer := unittest.RandomAddressFixture()

			asset, err := h.engine.MintAsset(creator)
			require.NoError(rt, err)

			seller := creator
			if secondary {
				seller = unittest.RandomAddressFixture()
				require.NoError(rt, h.engine.TransferAsset(creator, seller, asset.TokenID))
			}
			require.NoError(rt, h.engine.ListItem(seller, asset.TokenID, price))

			if excess > 0 {
				h.transferor.On("Transfer", buyer, excess).Return(nil).Once()
			}

			// the platform account accumulates fees across iterations, so
			// its share is measured as a delta
			platformBefore, err := h.ledger.PendingBalance(h.platform)
			require.NoError(rt, err)

			require.NoError(rt, h.engine.BuyItem(buyer, asset.TokenID, price+excess))

			sellerCredit, err := h.ledger.PendingBalance(seller)
			require.NoError(rt, err)
			creatorCredit, err := h.ledger.PendingBalance(creator)
			require.NoError(rt, err)
			platformAfter, err := h.ledger.PendingBalance(h.platform)
			require.NoError(rt, err)
			platformCredit := platformAfter - platformBefore

			fee := covenant.Fee(price, feeBps)
			if secondary {
				royalty := covenant.Fee(price, covenant.RoyaltyBps)
				require.Equal(rt, price, sellerCredit+creatorCredit+platformCredit,
					"sale must conserve the price")
				require.Equal(rt, royalty, creatorCredit)
				require.Equal(rt, price-fee-royalty, sellerCredit)
			} else {
				// the creator is the seller: both shares land on one account
				require.Equal(rt, price, sellerCredit+platformCredit,
					"sale must conserve the price")
				require.Equal(rt, price-fee, sellerCredit)
			}
			require.Equal(rt, fee, platformCredit)

			buyerCredit, err := h.ledger.PendingBalance(buyer)
			require.NoError(rt, err)
			require.Zero(rt, buyerCredit, "overpayment must be pushed back, not credited")
		})
	})
}
