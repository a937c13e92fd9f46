// Package health provides health monitoring functionality for BridgeLink connections and systems
// with thread-safe status tracking and aggregation.
//
// The health package enables tracking the health status of individual bridge connections and
// aggregating fleet-wide health information for monitoring, alerting, and operational visibility.
//
// # Health States
//
// The package supports four health states:
//   - Healthy: connection operating normally
//   - Degraded: connection operating with reduced functionality (for example, mid-reconnect)
//   - Unhealthy: connection not functioning properly
//   - Inactive: connection closed on purpose, not a failure
//
// The inactive state exists because a bridge disconnected by operator action must not be
// reported as a fault. Aggregation ignores inactive connections entirely, so a fleet where
// half the bridges are deliberately offline still reports healthy.
//
// # Core Components
//
// Status: Individual connection health state containing status level, descriptive message,
// timestamp, optional metrics, and hierarchical sub-statuses for complex systems.
//
// Monitor: Thread-safe centralized tracking system for multiple connection health statuses
// with concurrent read/write access and automatic timestamp management.
//
// Helpers: Convenience functions for creating status objects and aggregating fleet health.
//
// # Basic Usage
//
// Creating and tracking connection health:
//
//	monitor := health.NewMonitor()
//
//	// Update connection health
//	monitor.UpdateHealthy("office-pc", "Connection established")
//	monitor.UpdateDegraded("lab-pc", "Reconnect attempt 2 of 5")
//	monitor.UpdateUnhealthy("rack-pc", "Dial failed after 5 attempts")
//	monitor.UpdateInactive("spare-pc", "Disconnected by operator")
//
//	// Check individual connection health
//	if status, exists := monitor.Get("office-pc"); exists {
//	    if status.IsHealthy() {
//	        log.Println("office-pc is healthy")
//	    }
//	}
//
//	// Get all connection statuses
//	allStatuses := monitor.GetAll()
//	for name, status := range allStatuses {
//	    log.Printf("%s: %s - %s", name, status.Status, status.Message)
//	}
//
// # Fleet-Wide Health Aggregation
//
// Combining multiple connection health statuses into fleet-wide indicators:
//
//	// Aggregate all monitored connections
//	fleetHealth := monitor.AggregateHealth("fleet")
//	if fleetHealth.IsUnhealthy() {
//	    log.Printf("Fleet unhealthy: %s", fleetHealth.Message)
//	    // Trigger alerts, failover, etc.
//	}
//
//	// Aggregation uses hierarchical rules:
//	// - Inactive connections are ignored
//	// - Any unhealthy connection → fleet unhealthy
//	// - Any degraded connection (with no unhealthy) → fleet degraded
//	// - All active healthy → fleet healthy
//	// - All inactive → fleet inactive
//
// # Integration with Connections
//
// Converting a raw connection sample to health.Status:
//
//	sample := health.ConnectionHealth{
//	    Connected:      true,
//	    Uptime:         2 * time.Hour,
//	    EventsReceived: 15000,
//	    LastEvent:      time.Now(),
//	}
//	status := health.FromConnectionHealth("office-pc", sample)
//
//	// Error messages are automatically sanitized to remove:
//	// - URLs (http://, ws://, wss://)
//	// - File paths (Unix and Windows)
//	// - IP addresses and ports
//	// - Credentials (password, token, key, secret)
//
// Sanitization matters here because bridge dial errors embed the full ws:// URL,
// and that URL carries the API key in its query string.
//
// # Thread Safety
//
// All Monitor operations are thread-safe and can be safely called from multiple goroutines.
// The Monitor uses an RWMutex internally to allow concurrent reads while protecting writes.
// Status objects are immutable - methods like WithMetrics and WithSubStatus return new copies
// rather than modifying the original.
//
// # Error Handling Philosophy
//
// The health package does not return errors because it represents the *result* of error
// handling, not part of error propagation. Health status is an observability output.
//
// Components creating Status objects should use the bridgelink/errors package for any
// error wrapping before converting to health status messages. The health package then
// sanitizes these error messages for safe display.
//
// # Design Decisions
//
// Four-State Model: Chose healthy/degraded/unhealthy/inactive over binary healthy/unhealthy
// to enable nuanced operational responses. Degraded covers reconnecting connections that
// still hold recent data; inactive covers deliberate disconnects that must never alert.
//
// Automatic Sanitization: Error messages are sanitized by default (no opt-out) to prevent
// accidental credential exposure. This "secure by default" design prevents common security
// mistakes even if it occasionally over-redacts during debugging.
//
// Value-Based Status: Status is a struct, not *Status, making it immutable and preventing
// accidental mutation. Methods like WithMetrics return new copies, following functional
// programming patterns for safety.
//
// Conservative Aggregation: Fleet health follows "worst case" rules among active
// connections - a single unhealthy connection marks the entire fleet unhealthy. This
// conservative approach ensures problems are not masked by healthy connections.
package health
