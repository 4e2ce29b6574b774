package metrics

type NoopCollector struct{}

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) OperationExecuted(engine string, operation string) {}
func (nc *NoopCollector) OperationFailed(engine string, operation string)   {}
func (nc *NoopCollector) ValueSettled(engine string, amount uint64)         {}
func (nc *NoopCollector) EventEmitted(eventType string)                     {}
func (nc *NoopCollector) CacheEntries(resource string, entries uint)        {}
func (nc *NoopCollector) CacheHit(resource string)                          {}
func (nc *NoopCollector) CacheNotFound(resource string)                     {}
func (nc *NoopCollector) CacheMiss(resource string)                         {}
func (nc *NoopCollector) FundsCredited(amount uint64)                       {}
func (nc *NoopCollector) FundsWithdrawn(amount uint64)                      {}
