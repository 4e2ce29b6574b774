package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/covenantnet/covenant-go/module"
)

type EngineCollector struct {
	executed     *prometheus.CounterVec
	failed       *prometheus.CounterVec
	valueSettled *prometheus.CounterVec
	events       *prometheus.CounterVec
}

var _ module.EngineMetrics = (*EngineCollector)(nil)

func NewEngineCollector() *EngineCollector {

	ec := &EngineCollector{

		executed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "operations_executed_total",
			Namespace: namespaceCovenant,
			Subsystem: subsystemEngine,
			Help:      "the number of operations that committed successfully",
		}, []string{EngineLabel, LabelOperation}),

		failed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "operations_failed_total",
			Namespace: namespaceCovenant,
			Subsystem: subsystemEngine,
			Help:      "the number of operations rejected with a coded failure",
		}, []string{EngineLabel, LabelOperation}),

		valueSettled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "value_settled_total",
			Namespace: namespaceCovenant,
			Subsystem: subsystemEngine,
			Help:      "ledger value moved by committed operations",
		}, []string{EngineLabel}),

		events: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "events_emitted_total",
			Namespace: namespaceCovenant,
			Subsystem: subsystemEngine,
			Help:      "the number of events appended to the event log",
		}, []string{LabelEventType}),
	}

	return ec
}

func (ec *EngineCollector) OperationExecuted(engine string, operation string) {
	ec.executed.With(prometheus.Labels{EngineLabel: engine, LabelOperation: operation}).Inc()
}

func (ec *EngineCollector) OperationFailed(engine string, operation string) {
	ec.failed.With(prometheus.Labels{EngineLabel: engine, LabelOperation: operation}).Inc()
}

func (ec *EngineCollector) ValueSettled(engine string, amount uint64) {
	ec.valueSettled.With(prometheus.Labels{EngineLabel: engine}).Add(float64(amount))
}

func (ec *EngineCollector) EventEmitted(eventType string) {
	ec.events.With(prometheus.Labels{LabelEventType: eventType}).Inc()
}
