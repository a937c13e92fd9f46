package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockConsumer simulates a caller that can register its own metrics
type MockConsumer struct {
	name    string
	metrics struct {
		framesProcessed prometheus.Counter
		backlog         prometheus.Gauge
	}
}

func NewMockConsumer(name string) *MockConsumer {
	return &MockConsumer{name: name}
}

func (m *MockConsumer) Name() string {
	return m.name
}

// RegisterMetrics registers domain-specific metrics for the mock consumer
func (m *MockConsumer) RegisterMetrics(registrar MetricsRegistrar) error {
	// Register a custom counter
	m.metrics.framesProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bridgelink",
		Subsystem: "stream",
		Name:      "frames_processed_total",
		Help:      "Total number of stream frames processed",
	})

	err := registrar.RegisterCounter(m.name, "frames_processed_total", m.metrics.framesProcessed)
	if err != nil {
		return err
	}

	// Register a custom gauge
	m.metrics.backlog = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bridgelink",
		Subsystem: "stream",
		Name:      "backlog",
		Help:      "Current depth of the frame backlog",
	})

	return registrar.RegisterGauge(m.name, "backlog", m.metrics.backlog)
}

// ProcessFrames simulates frame processing and updates metrics
func (m *MockConsumer) ProcessFrames(frames int, backlog int) {
	m.metrics.framesProcessed.Add(float64(frames))
	m.metrics.backlog.Set(float64(backlog))
}

func TestMetricsIntegration_ConsumerRegistration(t *testing.T) {
	// Create a new metrics registry
	registry := NewMetricsRegistry()

	// Create mock consumer
	mockConsumer := NewMockConsumer("sse-stream")

	// Register the consumer's metrics
	err := mockConsumer.RegisterMetrics(registry)
	require.NoError(t, err)

	// Simulate some consumer activity
	mockConsumer.ProcessFrames(10, 5)

	// Verify metrics are registered and have values
	metricFamilies, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	foundMetrics := make(map[string]bool)
	for _, mf := range metricFamilies {
		foundMetrics[mf.GetName()] = true
	}

	// Verify custom metrics are registered
	assert.True(t, foundMetrics["bridgelink_stream_frames_processed_total"],
		"Custom frames_processed metric should be registered")
	assert.True(t, foundMetrics["bridgelink_stream_backlog"],
		"Custom backlog metric should be registered")
}

func TestMetricsIntegration_NoDuplicateRegistration(t *testing.T) {
	registry := NewMetricsRegistry()

	// Create two consumers with the same name (this shouldn't happen in real usage)
	consumer1 := NewMockConsumer("duplicate-consumer")
	consumer2 := NewMockConsumer("duplicate-consumer")

	// Register first consumer's metrics
	err := consumer1.RegisterMetrics(registry)
	require.NoError(t, err)

	// Try to register second consumer's metrics - should fail
	err = consumer2.RegisterMetrics(registry)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestMetricsIntegration_CoreAndCallerMetricsSeparate(t *testing.T) {
	registry := NewMetricsRegistry()
	coreMetrics := registry.CoreMetrics()

	mockConsumer := NewMockConsumer("separation-test")
	err := mockConsumer.RegisterMetrics(registry)
	require.NoError(t, err)

	// Use core metrics
	coreMetrics.RecordConnectionStatus("office-pc", 2)
	coreMetrics.RecordEventReceived("office-pc", "system_stats")

	// Use caller-specific metrics
	mockConsumer.ProcessFrames(5, 3)

	// Verify both types of metrics are present
	metricFamilies, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	foundMetrics := make(map[string]bool)
	for _, mf := range metricFamilies {
		foundMetrics[mf.GetName()] = true
	}

	// Verify core metrics
	assert.True(t, foundMetrics["bridgelink_connection_status"],
		"core connection status metric should be present")
	assert.True(t, foundMetrics["bridgelink_events_received_total"],
		"core events received metric should be present")

	// Verify caller-specific metrics
	assert.True(t, foundMetrics["bridgelink_stream_frames_processed_total"],
		"Caller-specific frames processed metric should be present")
	assert.True(t, foundMetrics["bridgelink_stream_backlog"],
		"Caller-specific backlog metric should be present")

	// Verify application metrics are NOT present (they should be registered by specific callers only)
	assert.False(t, foundMetrics["bridgelink_fleet_bridges"],
		"Fleet metric should NOT be in core registry")
	assert.False(t, foundMetrics["bridgelink_api_requests_total"],
		"API request metric should NOT be in core registry")
}

func TestMetricsIntegration_MetricsUnregistration(t *testing.T) {
	registry := NewMetricsRegistry()

	mockConsumer := NewMockConsumer("unregister-test")

	// Register metrics
	err := mockConsumer.RegisterMetrics(registry)
	require.NoError(t, err)

	// Process some frames to make metrics visible
	mockConsumer.ProcessFrames(1, 1)

	// Verify metrics are present
	metricFamilies, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	foundBefore := make(map[string]bool)
	for _, mf := range metricFamilies {
		foundBefore[mf.GetName()] = true
	}

	assert.True(t, foundBefore["bridgelink_stream_frames_processed_total"],
		"Metric should be present before unregistration")

	// Unregister one of the metrics
	success := registry.Unregister("unregister-test", "frames_processed_total")
	assert.True(t, success, "Unregistration should succeed")

	// Verify metric is no longer present
	metricFamilies, err = registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	foundAfter := make(map[string]bool)
	for _, mf := range metricFamilies {
		foundAfter[mf.GetName()] = true
	}

	assert.False(t, foundAfter["bridgelink_stream_frames_processed_total"],
		"Metric should be absent after unregistration")
	assert.True(t, foundAfter["bridgelink_stream_backlog"],
		"Other caller metrics should remain")
}

func TestMetricsIntegration_MultipleConsumersWithUniqueMetrics(t *testing.T) {
	registry := NewMetricsRegistry()

	// Create multiple consumers - they need different metric names to coexist
	consumer1 := NewMockConsumer("office-stream")
	consumer2 := NewMockConsumer("lab-stream")

	// Register first consumer
	err := consumer1.RegisterMetrics(registry)
	require.NoError(t, err)

	// The second consumer will fail because it tries to register the same Prometheus metric names
	// This demonstrates that our registry correctly prevents Prometheus-level conflicts
	err = consumer2.RegisterMetrics(registry)
	assert.Error(t, err, "Second consumer should fail due to Prometheus metric name conflict")
	assert.Contains(t, err.Error(), "prometheus conflict")
}

func TestMetricsIntegration_MultipleConsumersSameNames(t *testing.T) {
	registry := NewMetricsRegistry()

	// Create consumers with identical names - this simulates trying to register
	// the same consumer twice, which should be prevented
	consumer1 := NewMockConsumer("identical-consumer")
	consumer2 := NewMockConsumer("identical-consumer")

	// Register first consumer
	err := consumer1.RegisterMetrics(registry)
	require.NoError(t, err)

	// Second consumer with same name should fail at our registry level
	err = consumer2.RegisterMetrics(registry)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}
