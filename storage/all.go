package storage

// All includes all the storage modules
type All struct {
	Escrows   Escrows
	Voters    Voters
	Proposals Proposals
	Sessions  Sessions
	Listings  Listings
	Assets    Assets
	Accounts  Accounts
	Events    Events
	Sequences Sequences
	Settings  Settings
}
