package covenant

// Asset is a marketplace-tradable item. The creator is fixed at mint time and
// collects royalties on every secondary sale; the owner changes with each
// transfer or sale.
type Asset struct {
	TokenID uint64
	Creator Address
	Owner   Address
}
