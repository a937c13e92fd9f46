// Package metric provides Prometheus-based metrics collection and HTTP server
// for BridgeLink client monitoring and observability.
//
// The package offers a centralized metrics registry managing both core client
// metrics (connection status, event flow, subscription sync) and custom
// caller-specific metrics. It includes an HTTP server exposing metrics in
// Prometheus format for monitoring system integration.
//
// # Architecture
//
// The package follows a three-layer design:
//
//  1. Core Metrics: Client-level metrics automatically registered (Metrics type)
//  2. Caller Registry: Extensible registration for caller-specific metrics (MetricsRegistrar interface)
//  3. HTTP Server: Metrics endpoint with health checks (Server type)
//
// This architecture separates infrastructure concerns (core metrics) from
// application concerns (caller-specific metrics) while providing a unified
// metrics endpoint for monitoring systems.
//
// # Basic Usage
//
// Setting up metrics collection and HTTP server:
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//
//	go func() {
//	    if err := server.Start(); err != nil && err != http.ErrServerClosed {
//	        log.Printf("Metrics server error: %v", err)
//	    }
//	}()
//
//	// Record core client metrics
//	coreMetrics := registry.CoreMetrics()
//	coreMetrics.RecordConnectionStatus("office-pc", 2)
//	coreMetrics.RecordEventReceived("office-pc", "system_stats")
//
// The metrics server will expose Prometheus-formatted metrics at http://localhost:9090/metrics
// and a health check at http://localhost:9090/health.
//
// # Core Metrics
//
// The package automatically registers core client metrics tracking:
//
//   - Connection lifecycle: connection_status (0=disconnected, 1=connecting, 2=connected, 3=error)
//   - Connection churn: connects_total, reconnect_attempts_total
//   - Event flow: events_received_total, commands_sent_total
//   - Drop accounting: sends_dropped_total, malformed_events_total
//   - Subscription sync: sync_flushes_total
//   - Snapshot writes: cache_writes_total
//   - Health: health_check_status
//
// Access core metrics through the registry:
//
//	coreMetrics := registry.CoreMetrics()
//
//	// Connection lifecycle tracking
//	coreMetrics.RecordConnectionStatus("office-pc", 2) // 2 = connected
//	coreMetrics.RecordConnect("office-pc")
//	coreMetrics.RecordReconnectAttempt("office-pc")
//
//	// Event flow
//	coreMetrics.RecordEventReceived("office-pc", "system_stats")
//	coreMetrics.RecordCommandSent("office-pc", "subscribe")
//
//	// Drop accounting
//	coreMetrics.RecordSendDropped("office-pc")
//	coreMetrics.RecordMalformedEvent("office-pc", "decode")
//
// # Caller-Specific Metrics
//
// Callers can register custom metrics through the registry:
//
//	// Register a counter
//	requestCounter := prometheus.NewCounter(prometheus.CounterOpts{
//	    Name: "api_requests_total",
//	    Help: "Total number of API requests",
//	})
//	err := registry.RegisterCounter("restapi", "api_requests_total", requestCounter)
//
//	// Register a gauge with labels
//	watcherGauge := prometheus.NewGaugeVec(
//	    prometheus.GaugeOpts{
//	        Name: "snapshot_watchers",
//	        Help: "Number of active snapshot watchers by pattern",
//	    },
//	    []string{"pattern"},
//	)
//	err = registry.RegisterGaugeVec("snapshot", "snapshot_watchers", watcherGauge)
//
// # HTTP Server
//
// The metrics server provides three endpoints:
//
//   - GET / - HTML page with links to metrics and health endpoints
//   - GET /metrics - Prometheus-formatted metrics (default path, configurable)
//   - GET /health - plain OK health check response
//
// Server configuration:
//
//	// Default configuration (port 9090, path /metrics)
//	server := metric.NewServer(0, "", registry)
//
//	// Custom configuration
//	server := metric.NewServer(8080, "/prometheus", registry)
//
//	// Start server (blocking)
//	if err := server.Start(); err != nil {
//	    log.Fatalf("Failed to start metrics server: %v", err)
//	}
//
//	// Stop server (in another goroutine)
//	if err := server.Stop(); err != nil {
//	    log.Printf("Error stopping server: %v", err)
//	}
//
// # Prometheus Integration
//
// The package uses the official Prometheus Go client library and exposes
// metrics in OpenMetrics format. Configure Prometheus to scrape the endpoint:
//
//	# prometheus.yml
//	scrape_configs:
//	  - job_name: 'bridgelink'
//	    static_configs:
//	      - targets: ['localhost:9090']
//	    metrics_path: '/metrics'
//	    scrape_interval: 15s
//
// All core metrics use the namespace "bridgelink" and appropriate subsystems:
//   - bridgelink_connection_status{bridge="..."}
//   - bridgelink_events_received_total{bridge="...",type="..."}
//   - bridgelink_subscriptions_sync_flushes_total{bridge="..."}
//
// Caller-specific metrics use the metric name as provided during registration.
//
// # MetricsRegistrar Interface
//
// Components accept the MetricsRegistrar interface for dependency injection:
//
//	type Watcher struct {
//	    metrics metric.MetricsRegistrar
//	}
//
//	func NewWatcher(metrics metric.MetricsRegistrar) *Watcher {
//	    counter := prometheus.NewCounter(prometheus.CounterOpts{
//	        Name: "updates_total",
//	        Help: "Total updates observed",
//	    })
//	    metrics.RegisterCounter("watcher", "updates_total", counter)
//
//	    return &Watcher{metrics: metrics}
//	}
//
// This enables testing with mock registrars and provides loose coupling.
//
// # Thread Safety
//
// All registry operations are thread-safe:
//   - Registration methods use mutex protection
//   - Metric recording is lock-free (Prometheus guarantee)
//   - CoreMetrics() returns a thread-safe shared instance
//   - PrometheusRegistry() is safe for concurrent access
//
// # Error Handling
//
// Registration methods return errors for:
//
//   - Duplicate registration: attempting to register same metric name twice
//   - Prometheus conflicts: internal Prometheus registration failures
//   - Validation errors: nil metrics or invalid parameters
//
// The Server.Start() method returns errors for:
//
//   - Server already running
//   - Nil registry
//   - HTTP server failures (port in use, permission denied)
//
// # Design Decisions
//
// Centralized Registry: Chose centralized registry over distributed collectors
// to ensure consistent metric namespace, prevent duplication, and enable
// runtime metric discovery.
//
// Core vs Caller Metrics: Separated client-level metrics (core) from
// caller-specific metrics to distinguish transport health from application
// health.
//
// Prometheus Direct Integration: Used official Prometheus client rather than
// abstraction to leverage native features, avoid wrapper overhead, and ensure
// compatibility with Prometheus ecosystem.
package metric
