package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all platform-level metrics (not caller-specific)
type Metrics struct {
	// Connection metrics, labeled by bridge connection id
	ConnectionStatus  *prometheus.GaugeVec
	ConnectsTotal     *prometheus.CounterVec
	DisconnectsTotal  *prometheus.CounterVec
	ReconnectAttempts *prometheus.CounterVec

	// Message metrics
	EventsReceived  *prometheus.CounterVec
	CommandsSent    *prometheus.CounterVec
	SendsDropped    *prometheus.CounterVec
	MalformedEvents *prometheus.CounterVec
	SyncFlushes     *prometheus.CounterVec

	// Snapshot cache metrics
	CacheWrites *prometheus.CounterVec

	// Health metrics
	HealthCheckStatus *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance with all platform metrics
func NewMetrics() *Metrics {
	return &Metrics{
		ConnectionStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "bridgelink",
				Subsystem: "connection",
				Name:      "status",
				Help:      "Connection status (0=disconnected, 1=connecting, 2=connected, 3=error)",
			},
			[]string{"bridge"},
		),

		ConnectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bridgelink",
				Subsystem: "connection",
				Name:      "connects_total",
				Help:      "Total number of successful connection opens",
			},
			[]string{"bridge"},
		),

		DisconnectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bridgelink",
				Subsystem: "connection",
				Name:      "disconnects_total",
				Help:      "Total number of intentional connection closes",
			},
			[]string{"bridge"},
		),

		ReconnectAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bridgelink",
				Subsystem: "connection",
				Name:      "reconnect_attempts_total",
				Help:      "Total number of scheduled reconnect attempts",
			},
			[]string{"bridge"},
		),

		EventsReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bridgelink",
				Subsystem: "events",
				Name:      "received_total",
				Help:      "Total number of inbound events received",
			},
			[]string{"bridge", "type"},
		),

		CommandsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bridgelink",
				Subsystem: "commands",
				Name:      "sent_total",
				Help:      "Total number of outbound commands sent",
			},
			[]string{"bridge", "op"},
		),

		SendsDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bridgelink",
				Subsystem: "commands",
				Name:      "dropped_total",
				Help:      "Total number of commands dropped because the socket was closed",
			},
			[]string{"bridge"},
		),

		MalformedEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bridgelink",
				Subsystem: "events",
				Name:      "malformed_total",
				Help:      "Total number of inbound frames dropped as malformed or unknown",
			},
			[]string{"bridge", "reason"},
		),

		SyncFlushes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bridgelink",
				Subsystem: "subscriptions",
				Name:      "sync_flushes_total",
				Help:      "Total number of batched subscription syncs sent",
			},
			[]string{"bridge"},
		),

		CacheWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bridgelink",
				Subsystem: "cache",
				Name:      "writes_total",
				Help:      "Total number of snapshot cache writes",
			},
			[]string{"bridge", "channel"},
		),

		HealthCheckStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "bridgelink",
				Subsystem: "health",
				Name:      "status",
				Help:      "Health check status (0=unhealthy, 1=healthy)",
			},
			[]string{"bridge"},
		),
	}
}

// RecordConnectionStatus updates the connection status metric
func (c *Metrics) RecordConnectionStatus(bridge string, status int) {
	c.ConnectionStatus.WithLabelValues(bridge).Set(float64(status))
}

// RecordConnect increments the successful connect counter
func (c *Metrics) RecordConnect(bridge string) {
	c.ConnectsTotal.WithLabelValues(bridge).Inc()
}

// RecordDisconnect increments the intentional close counter
func (c *Metrics) RecordDisconnect(bridge string) {
	c.DisconnectsTotal.WithLabelValues(bridge).Inc()
}

// RecordReconnectAttempt increments the reconnect attempt counter
func (c *Metrics) RecordReconnectAttempt(bridge string) {
	c.ReconnectAttempts.WithLabelValues(bridge).Inc()
}

// RecordEventReceived increments the received event counter
func (c *Metrics) RecordEventReceived(bridge, eventType string) {
	c.EventsReceived.WithLabelValues(bridge, eventType).Inc()
}

// RecordCommandSent increments the sent command counter
func (c *Metrics) RecordCommandSent(bridge, op string) {
	c.CommandsSent.WithLabelValues(bridge, op).Inc()
}

// RecordSendDropped increments the dropped send counter
func (c *Metrics) RecordSendDropped(bridge string) {
	c.SendsDropped.WithLabelValues(bridge).Inc()
}

// RecordMalformedEvent increments the malformed frame counter
func (c *Metrics) RecordMalformedEvent(bridge, reason string) {
	c.MalformedEvents.WithLabelValues(bridge, reason).Inc()
}

// RecordSyncFlush increments the subscription sync counter
func (c *Metrics) RecordSyncFlush(bridge string) {
	c.SyncFlushes.WithLabelValues(bridge).Inc()
}

// RecordCacheWrite increments the snapshot write counter
func (c *Metrics) RecordCacheWrite(bridge, channel string) {
	c.CacheWrites.WithLabelValues(bridge, channel).Inc()
}

// RecordHealthStatus updates health check status
func (c *Metrics) RecordHealthStatus(bridge string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	c.HealthCheckStatus.WithLabelValues(bridge).Set(value)
}
