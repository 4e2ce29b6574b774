package covenant

import (
	"math/bits"
)

// Fee rates are expressed in basis points (1 bps = 0.01%).
const (
	// BpsDenominator converts basis points to a fraction of an amount.
	BpsDenominator uint64 = 10000

	// EscrowFeeBps is the fixed platform fee on escrow release and dispute
	// resolution (1%).
	EscrowFeeBps uint64 = 100

	// RoyaltyBps is the fixed creator royalty on secondary marketplace sales
	// (5%).
	RoyaltyBps uint64 = 500

	// DefaultPlatformFeeBps is the marketplace platform fee in effect until
	// the platform admin configures another rate (2.5%).
	DefaultPlatformFeeBps uint64 = 250

	// MaxPlatformFeeBps caps the configurable marketplace platform fee (10%).
	MaxPlatformFeeBps uint64 = 1000
)

// Fee computes the fee share of amount at the given rate, rounding down. The
// intermediate product is kept at full width, so the result is exact for any
// amount. Rates must not exceed BpsDenominator.
func Fee(amount uint64, bps uint64) uint64 {
	hi, lo := bits.Mul64(amount, bps)
	fee, _ := bits.Div64(hi, lo, BpsDenominator)
	return fee
}
