package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/covenantnet/covenant-go/module"
)

type LedgerCollector struct {
	credited  prometheus.Counter
	withdrawn prometheus.Counter
}

var _ module.LedgerMetrics = (*LedgerCollector)(nil)

func NewLedgerCollector() *LedgerCollector {

	lc := &LedgerCollector{

		credited: promauto.NewCounter(prometheus.CounterOpts{
			Name:      "funds_credited_total",
			Namespace: namespaceCovenant,
			Subsystem: subsystemLedger,
			Help:      "total value credited to pending-withdrawal balances",
		}),

		withdrawn: promauto.NewCounter(prometheus.CounterOpts{
			Name:      "funds_withdrawn_total",
			Namespace: namespaceCovenant,
			Subsystem: subsystemLedger,
			Help:      "total value pulled out by account owners",
		}),
	}

	return lc
}

func (lc *LedgerCollector) FundsCredited(amount uint64) {
	lc.credited.Add(float64(amount))
}

func (lc *LedgerCollector) FundsWithdrawn(amount uint64) {
	lc.withdrawn.Add(float64(amount))
}
