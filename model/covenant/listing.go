package covenant

// Listing is a marketplace offer for a single asset, keyed by token. At most
// one listing record exists per token; a sale or cancellation deactivates it,
// and relisting overwrites it.
type Listing struct {
	TokenID uint64
	Seller  Address
	// Price is the minimum acceptable payment in ledger units.
	Price  uint64
	Active bool
}
