package covenant

// Account is a ledger account holding funds owed to an address. Funds are
// never pushed: every payout is credited here and the owner withdraws it in a
// separate call.
type Account struct {
	Address Address
	// PendingWithdrawal is the balance accumulated through credits and not
	// yet withdrawn.
	PendingWithdrawal uint64
}
