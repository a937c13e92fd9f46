package metric

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/c360/bridgelink/errors"
)

// MetricsRegistrar defines the interface for registering caller-specific metrics
type MetricsRegistrar interface {
	RegisterCounter(callerName, metricName string, counter prometheus.Counter) error
	RegisterGauge(callerName, metricName string, gauge prometheus.Gauge) error
	RegisterCounterVec(callerName, metricName string, counterVec *prometheus.CounterVec) error
	RegisterGaugeVec(callerName, metricName string, gaugeVec *prometheus.GaugeVec) error
	RegisterHistogramVec(callerName, metricName string, histogramVec *prometheus.HistogramVec) error
	Unregister(callerName, metricName string) bool
}

// MetricsRegistry manages the registration and lifecycle of metrics
type MetricsRegistry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
	registeredMetrics  map[string]prometheus.Collector
	mu                 sync.RWMutex
}

// NewMetricsRegistry creates a new metrics registry with core platform metrics
func NewMetricsRegistry() *MetricsRegistry {
	prometheusRegistry := prometheus.NewRegistry()

	registry := &MetricsRegistry{
		prometheusRegistry: prometheusRegistry,
		registeredMetrics:  make(map[string]prometheus.Collector),
	}

	// Initialize and register core metrics
	registry.Metrics = NewMetrics()
	registry.registerMetrics()

	// Add Go runtime metrics
	registry.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *MetricsRegistry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// CoreMetrics returns the core platform metrics
func (r *MetricsRegistry) CoreMetrics() *Metrics {
	return r.Metrics
}

// register adds a collector under a caller-scoped key with duplicate detection
func (r *MetricsRegistry) register(callerName, metricName, kind string, collector prometheus.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", callerName, metricName)

	if _, exists := r.registeredMetrics[key]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("metric %s already registered for caller %s", metricName, callerName),
			"MetricsRegistry", "Register"+kind, "duplicate metric registration")
	}

	if err := r.prometheusRegistry.Register(collector); err != nil {
		// Check if it's a duplicate registration error from Prometheus
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if stderrors.As(err, &alreadyRegErr) {
			return errors.WrapInvalid(err, "MetricsRegistry", "Register"+kind,
				fmt.Sprintf("prometheus conflict for metric %s", metricName))
		}
		return errors.WrapFatal(err, "MetricsRegistry", "Register"+kind,
			"failed to register collector with prometheus")
	}

	r.registeredMetrics[key] = collector
	return nil
}

// RegisterCounter registers a counter metric for a caller
func (r *MetricsRegistry) RegisterCounter(callerName, metricName string, counter prometheus.Counter) error {
	return r.register(callerName, metricName, "Counter", counter)
}

// RegisterGauge registers a gauge metric for a caller
func (r *MetricsRegistry) RegisterGauge(callerName, metricName string, gauge prometheus.Gauge) error {
	return r.register(callerName, metricName, "Gauge", gauge)
}

// RegisterCounterVec registers a counter vector metric for a caller
func (r *MetricsRegistry) RegisterCounterVec(callerName, metricName string, counterVec *prometheus.CounterVec) error {
	return r.register(callerName, metricName, "CounterVec", counterVec)
}

// RegisterGaugeVec registers a gauge vector metric for a caller
func (r *MetricsRegistry) RegisterGaugeVec(callerName, metricName string, gaugeVec *prometheus.GaugeVec) error {
	return r.register(callerName, metricName, "GaugeVec", gaugeVec)
}

// RegisterHistogramVec registers a histogram vector metric for a caller
func (r *MetricsRegistry) RegisterHistogramVec(
	callerName, metricName string, histogramVec *prometheus.HistogramVec) error {
	return r.register(callerName, metricName, "HistogramVec", histogramVec)
}

// Unregister removes a metric from the registry
func (r *MetricsRegistry) Unregister(callerName, metricName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", callerName, metricName)

	collector, exists := r.registeredMetrics[key]
	if !exists {
		return false
	}

	success := r.prometheusRegistry.Unregister(collector)
	if success {
		delete(r.registeredMetrics, key)
	}

	return success
}

// registerMetrics registers all core platform metrics
func (r *MetricsRegistry) registerMetrics() {
	r.prometheusRegistry.MustRegister(
		r.Metrics.ConnectionStatus,
		r.Metrics.ConnectsTotal,
		r.Metrics.DisconnectsTotal,
		r.Metrics.ReconnectAttempts,
		r.Metrics.EventsReceived,
		r.Metrics.CommandsSent,
		r.Metrics.SendsDropped,
		r.Metrics.MalformedEvents,
		r.Metrics.SyncFlushes,
		r.Metrics.CacheWrites,
		r.Metrics.HealthCheckStatus,
	)
}
