package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/covenantnet/covenant-go/module"
)

type StorageCollector struct {
	cacheEntries  *prometheus.GaugeVec
	cacheHits     *prometheus.CounterVec
	cacheNotFound *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
}

var _ module.CacheMetrics = (*StorageCollector)(nil)

func NewStorageCollector() *StorageCollector {

	sc := &StorageCollector{

		cacheEntries: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:      "entries_total",
			Namespace: namespaceCovenant,
			Subsystem: subsystemCache,
			Help:      "the number of entries in the read cache",
		}, []string{LabelResource}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "hits_total",
			Namespace: namespaceCovenant,
			Subsystem: subsystemCache,
			Help:      "the number of reads served from the cache",
		}, []string{LabelResource}),

		cacheNotFound: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "not_found_total",
			Namespace: namespaceCovenant,
			Subsystem: subsystemCache,
			Help:      "the number of reads not found in cache or database",
		}, []string{LabelResource}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "misses_total",
			Namespace: namespaceCovenant,
			Subsystem: subsystemCache,
			Help:      "the number of reads that missed the cache but hit the database",
		}, []string{LabelResource}),
	}

	return sc
}

func (sc *StorageCollector) CacheEntries(resource string, entries uint) {
	sc.cacheEntries.With(prometheus.Labels{LabelResource: resource}).Set(float64(entries))
}

func (sc *StorageCollector) CacheHit(resource string) {
	sc.cacheHits.With(prometheus.Labels{LabelResource: resource}).Inc()
}

func (sc *StorageCollector) CacheNotFound(resource string) {
	sc.cacheNotFound.With(prometheus.Labels{LabelResource: resource}).Inc()
}

func (sc *StorageCollector) CacheMiss(resource string) {
	sc.cacheMisses.With(prometheus.Labels{LabelResource: resource}).Inc()
}
