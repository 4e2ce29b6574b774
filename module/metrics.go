package module

// EngineMetrics reports operation throughput of the settlement engines.
type EngineMetrics interface {
	// OperationExecuted reports one operation that passed all checks and
	// committed.
	OperationExecuted(engine string, operation string)
	// OperationFailed reports one operation rejected with a coded failure.
	// Rejected operations leave no state behind.
	OperationFailed(engine string, operation string)
	// ValueSettled reports ledger value moved by a committed operation.
	ValueSettled(engine string, amount uint64)
	// EventEmitted reports one event appended to the event log.
	EventEmitted(eventType string)
}

// CacheMetrics reports effectiveness of the storage read caches.
type CacheMetrics interface {
	// CacheEntries reports the total number of cached items.
	CacheEntries(resource string, entries uint)
	// CacheHit reports the number of times the queried item is found in the cache.
	CacheHit(resource string)
	// CacheNotFound records the number of times the queried item was not found
	// in either cache or database.
	CacheNotFound(resource string)
	// CacheMiss reports the number of times the queried item is not found in
	// the cache, but found in the database.
	CacheMiss(resource string)
}

// LedgerMetrics reports movement through the shared balance table.
type LedgerMetrics interface {
	// FundsCredited reports value added to an account's pending balance.
	FundsCredited(amount uint64)
	// FundsWithdrawn reports value pulled out by an account owner.
	FundsWithdrawn(amount uint64)
}
