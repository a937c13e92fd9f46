package snapshot

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/bridgelink/metric"
)

// storeMetrics holds Prometheus metrics for snapshot store operations.
type storeMetrics struct {
	// Counter metrics - directly incremented without stats duplication
	hits    prometheus.Counter
	misses  prometheus.Counter
	sets    prometheus.Counter
	deletes prometheus.Counter

	// Gauge metrics - updated on operations
	size     prometheus.Gauge
	watchers prometheus.Gauge
}

// newStoreMetrics creates and registers snapshot metrics with the provided registry.
func newStoreMetrics(registry *metric.MetricsRegistry, prefix string) (*storeMetrics, error) {
	m := &storeMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "bridgelink",
			Subsystem:   "snapshot",
			Name:        "hits_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of snapshot store hits",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "bridgelink",
			Subsystem:   "snapshot",
			Name:        "misses_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of snapshot store misses",
		}),
		sets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "bridgelink",
			Subsystem:   "snapshot",
			Name:        "sets_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of snapshot store set operations",
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "bridgelink",
			Subsystem:   "snapshot",
			Name:        "deletes_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of snapshot store delete operations",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "bridgelink",
			Subsystem:   "snapshot",
			Name:        "size",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Current number of entries in the snapshot store",
		}),
		watchers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "bridgelink",
			Subsystem:   "snapshot",
			Name:        "watchers",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Current number of active snapshot watchers",
		}),
	}

	// Register all metrics with the registry
	if err := registry.RegisterCounter(prefix, "snapshot_hits", m.hits); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "snapshot_misses", m.misses); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "snapshot_sets", m.sets); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "snapshot_deletes", m.deletes); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "snapshot_size", m.size); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "snapshot_watchers", m.watchers); err != nil {
		return nil, err
	}

	return m, nil
}

// recordHit increments the hit counter.
func (m *storeMetrics) recordHit() {
	m.hits.Inc()
}

// recordMiss increments the miss counter.
func (m *storeMetrics) recordMiss() {
	m.misses.Inc()
}

// recordSet increments the set counter.
func (m *storeMetrics) recordSet() {
	m.sets.Inc()
}

// recordDelete increments the delete counter.
func (m *storeMetrics) recordDelete() {
	m.deletes.Inc()
}

// updateSize sets the current store size.
func (m *storeMetrics) updateSize(size int) {
	m.size.Set(float64(size))
}

// updateWatchers sets the current watcher count.
func (m *storeMetrics) updateWatchers(count int) {
	m.watchers.Set(float64(count))
}
