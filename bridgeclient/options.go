package bridgeclient

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/c360/bridgelink/metric"
)

// Option is a functional option for configuring the Client
type Option func(*Client) error

// WithLogger sets a custom logger for the client
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithStatusHandler sets a callback invoked on every status transition
func WithStatusHandler(fn StatusHandler) Option {
	return func(c *Client) error {
		c.statusHandler = fn
		return nil
	}
}

// WithErrorHandler sets a callback for server-reported errors
func WithErrorHandler(fn ErrorHandler) Option {
	return func(c *Client) error {
		c.errorHandler = fn
		return nil
	}
}

// WithCacheSink sets the snapshot sink that receives decoded data events
func WithCacheSink(sink CacheSink) Option {
	return func(c *Client) error {
		c.cache = sink
		return nil
	}
}

// WithMetricsRegistry enables connection metrics on the given registry
func WithMetricsRegistry(registry *metric.MetricsRegistry) Option {
	return func(c *Client) error {
		if registry == nil {
			return nil
		}
		c.metrics = registry.CoreMetrics()
		return nil
	}
}

// WithSyncDelay sets how long subscription changes are coalesced before
// the batched subscribe message is sent
func WithSyncDelay(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			d = DefaultSyncDelay
		}
		c.syncDelay = d
		return nil
	}
}

// WithDialer sets a custom websocket dialer
func WithDialer(dialer *websocket.Dialer) Option {
	return func(c *Client) error {
		if dialer == nil {
			return nil
		}
		c.dialer = dialer
		return nil
	}
}

// WithReconnectCeiling sets how many automatic reconnect attempts are made
// before the client gives up and waits for an explicit Connect. Zero
// disables automatic reconnection.
func WithReconnectCeiling(n int) Option {
	return func(c *Client) error {
		if n < 0 {
			n = DefaultReconnectCeiling
		}
		c.reconnect.MaxAttempts = n
		return nil
	}
}

// WithReconnectDelay sets the initial and maximum backoff delay between
// reconnect attempts. The delay doubles per attempt up to the maximum.
func WithReconnectDelay(initial, maxDelay time.Duration) Option {
	return func(c *Client) error {
		if initial <= 0 {
			initial = DefaultReconnectDelay
		}
		if maxDelay < initial {
			maxDelay = initial
		}
		c.reconnect.InitialDelay = initial
		c.reconnect.MaxDelay = maxDelay
		return nil
	}
}
