// Package bridgeclient manages websocket connections to bridge servers.
//
// One Client owns one connection: it dials the bridge's websocket endpoint,
// multiplexes topic subscriptions from any number of callers onto a single
// wire-level subscription set, routes inbound events into a snapshot cache,
// and reconnects with bounded exponential backoff when the transport drops.
// Callers observe the connection through status transitions and the cache,
// not through per-call errors.
package bridgeclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/c360/bridgelink/errors"
	"github.com/c360/bridgelink/health"
	"github.com/c360/bridgelink/metric"
	"github.com/c360/bridgelink/pkg/retry"
	"github.com/c360/bridgelink/wire"
)

// Defaults for construction-time options.
const (
	DefaultSyncDelay         = 10 * time.Millisecond
	DefaultReconnectCeiling  = 5
	DefaultReconnectDelay    = time.Second
	DefaultMaxReconnectDelay = 30 * time.Second

	defaultHandshakeTimeout = 45 * time.Second
	closeWriteTimeout       = 5 * time.Second
)

// Snapshot channels written by the dispatcher, one per data event type.
const (
	ChannelStats           = "stats"
	ChannelMedia           = "media"
	ChannelProcesses       = "processes"
	ChannelMediaFeedback   = "media_feedback"
	ChannelProcessFeedback = "process_feedback"
)

// Client manages one bridge connection
type Client struct {
	id     string
	logger *slog.Logger

	// mu guards the connection state below. Timer callbacks and the
	// reader goroutine take it before touching any of these fields.
	mu             sync.Mutex
	cfg            Config
	conn           *websocket.Conn
	status         Status
	intentional    bool
	refs           map[string]int
	syncTimer      *time.Timer
	reconnectTimer *time.Timer
	attempts       int
	connectedAt    time.Time
	lastError      string
	errorCount     int

	// writeMu serializes socket writes; the transport forbids
	// concurrent writers.
	writeMu sync.Mutex

	// Set at construction, immutable afterwards.
	dialer        *websocket.Dialer
	syncDelay     time.Duration
	reconnect     retry.Config
	statusHandler StatusHandler
	errorHandler  ErrorHandler
	cache         CacheSink
	metrics       *metric.Metrics

	eventsReceived atomic.Int64
	lastEventNano  atomic.Int64
}

// New creates a client for the bridge identified by id. The id scopes all
// cache keys, metrics and log lines for this connection and must be unique
// across clients sharing a cache sink.
func New(id string, cfg Config, opts ...Option) (*Client, error) {
	if id == "" {
		return nil, errors.WrapInvalid(
			fmt.Errorf("connection id cannot be empty"),
			"bridgeclient", "New", "validation failed")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		id:     id,
		cfg:    cfg,
		logger: slog.Default(),
		// A fresh client is disconnected on purpose until the first
		// Connect, so Health reports inactive rather than down.
		intentional: true,
		refs:        make(map[string]int),
		dialer:      &websocket.Dialer{HandshakeTimeout: defaultHandshakeTimeout},
		syncDelay:   DefaultSyncDelay,
		reconnect: retry.Config{
			MaxAttempts:  DefaultReconnectCeiling,
			InitialDelay: DefaultReconnectDelay,
			MaxDelay:     DefaultMaxReconnectDelay,
			Multiplier:   2,
		},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, errors.WrapInvalid(err, "bridgeclient", "New", "apply option")
		}
	}

	c.logger = c.logger.With("connection_id", id)
	return c, nil
}

// Connect opens the connection. It clears the suppression left behind by
// Disconnect, dials the configured endpoint, and on success resubscribes to
// every topic callers still hold. A failed dial moves the client to
// StatusError and schedules an automatic retry; the dial error is also
// returned for callers that want it.
//
// Connect is a no-op when the connection is already open or opening.
func (c *Client) Connect(ctx context.Context) error {
	return c.connect(ctx, true)
}

// Disconnect closes the connection on purpose. Automatic reconnection is
// suppressed until the next Connect. All topic refcounts are dropped
// without sending unsubscribes; the server forgets them with the session.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.intentional = true
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	if c.syncTimer != nil {
		c.syncTimer.Stop()
		c.syncTimer = nil
	}
	conn := c.conn
	c.conn = nil
	c.connectedAt = time.Time{}
	c.refs = make(map[string]int)
	c.attempts = 0
	changed := c.setStatusLocked(StatusDisconnected)
	c.mu.Unlock()

	if conn != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		c.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteTimeout))
		c.writeMu.Unlock()
		_ = conn.Close()
		if c.metrics != nil {
			c.metrics.RecordDisconnect(c.id)
		}
		c.logger.Info("Bridge disconnected")
	}
	if changed {
		c.emitStatus(StatusDisconnected)
	}
}

// UpdateConfig replaces the endpoint config. While connected or connecting
// the client drops the current connection and redials the new endpoint;
// topic refcounts do not survive the switch, callers resubscribe as they
// would after any disconnect. While disconnected the config is stored for
// the next Connect.
func (c *Client) UpdateConfig(ctx context.Context, cfg Config) error {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	active := c.conn != nil || c.status == StatusConnecting
	c.cfg = cfg
	c.mu.Unlock()

	c.logger.Info("Bridge config updated",
		"host", cfg.Host, "port", cfg.Port, "secure", cfg.Secure, "redial", active)
	if !active {
		return nil
	}
	c.Disconnect()
	return c.Connect(ctx)
}

// Send transmits one command. Commands are fire-and-forget: while the
// connection is closed they are dropped with a warning, and confirmation
// arrives through correlated feedback events rather than a return value.
func (c *Client) Send(cmd *wire.Command) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		c.logger.Warn("Dropping command, not connected", "op", string(cmd.Op))
		if c.metrics != nil {
			c.metrics.RecordSendDropped(c.id)
		}
		return
	}
	if err := c.writeCommand(conn, cmd); err != nil {
		c.logger.Warn("Command write failed", "op", string(cmd.Op), "error", err)
	}
}

// SendMediaControl sends a playback control command
func (c *Client) SendMediaControl(action wire.MediaAction) {
	c.Send(wire.MediaControl(action))
}

// SendSetVolume sends a volume change, level 0-100
func (c *Client) SendSetVolume(level int) {
	c.Send(wire.SetVolume(level))
}

// SendProcessKill terminates a process by pid
func (c *Client) SendProcessKill(pid uint32) {
	c.Send(wire.ProcessKill(pid))
}

// SendProcessKillByName terminates all processes matching name
func (c *Client) SendProcessKillByName(name string) {
	c.Send(wire.ProcessKillByName(name))
}

// SendProcessFocus brings a process window to the foreground
func (c *Client) SendProcessFocus(pid uint32) {
	c.Send(wire.ProcessFocus(pid))
}

// SendProcessLaunch starts a program on the bridge host
func (c *Client) SendProcessLaunch(path string, args ...string) {
	c.Send(wire.ProcessLaunch(path, args...))
}

// ID returns the connection identity
func (c *Client) ID() string {
	return c.id
}

// Status returns the current connection status
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// IsConnected reports whether the socket is open
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Config returns the current endpoint config
func (c *Client) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Health reports the connection's health for monitoring
func (c *Client) Health() health.Status {
	c.mu.Lock()
	sample := health.ConnectionHealth{
		Connected:   c.conn != nil,
		Connecting:  c.status == StatusConnecting,
		Intentional: c.intentional,
		LastError:   c.lastError,
		ErrorCount:  c.errorCount,
	}
	if c.conn != nil {
		sample.Uptime = time.Since(c.connectedAt)
	}
	c.mu.Unlock()

	sample.EventsReceived = c.eventsReceived.Load()
	if nano := c.lastEventNano.Load(); nano != 0 {
		sample.LastEvent = time.Unix(0, nano)
	}
	return health.FromConnectionHealth(c.id, sample)
}

// connect performs one dial attempt. Passive attempts come from the
// reconnect timer and are suppressed after an intentional close; explicit
// attempts clear that suppression and reset the retry budget.
func (c *Client) connect(ctx context.Context, explicit bool) error {
	c.mu.Lock()
	if c.conn != nil || c.status == StatusConnecting {
		c.mu.Unlock()
		return nil
	}
	if c.intentional && !explicit {
		c.mu.Unlock()
		return nil
	}
	c.intentional = false
	if explicit {
		c.attempts = 0
	}
	changed := c.setStatusLocked(StatusConnecting)
	cfg := c.cfg
	c.mu.Unlock()

	if changed {
		c.emitStatus(StatusConnecting)
	}
	c.logger.Info("Connecting to bridge",
		"host", cfg.Host, "port", cfg.Port, "secure", cfg.Secure)

	conn, _, err := c.dialer.DialContext(ctx, cfg.URL(), nil)
	if err != nil {
		wrapped := errors.WrapTransient(err, "bridgeclient", "connect", "dial")
		c.mu.Lock()
		if c.intentional {
			// Disconnect arrived while the dial was in flight
			c.mu.Unlock()
			return wrapped
		}
		c.recordFailureLocked(err)
		changed := c.setStatusLocked(StatusError)
		changed = c.scheduleReconnectLocked() || changed
		c.mu.Unlock()

		if changed {
			c.emitStatus(StatusError)
		}
		c.logger.Warn("Bridge dial failed", "error", err)
		return wrapped
	}

	c.mu.Lock()
	if c.intentional {
		c.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	c.conn = conn
	c.attempts = 0
	c.connectedAt = time.Now()
	changed = c.setStatusLocked(StatusConnected)
	c.mu.Unlock()

	if changed {
		c.emitStatus(StatusConnected)
	}
	if c.metrics != nil {
		c.metrics.RecordConnect(c.id)
	}
	c.logger.Info("Bridge connected", "host", cfg.Host, "port", cfg.Port)

	// The server holds no topic interest across sessions, so flush the
	// full set before any caller activity.
	c.flushSubscriptions()
	go c.readLoop(conn)
	return nil
}

// readLoop drains one connection until it fails. Dispatch happens inline
// so events are cache-written in arrival order.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleTransportFailure(conn, err)
			return
		}
		c.dispatch(data)
	}
}

// handleTransportFailure reacts to a dead connection. A close frame from
// the server reads as a disconnect, anything else as a transport error;
// both schedule a reconnect unless the close was ours.
func (c *Client) handleTransportFailure(conn *websocket.Conn, err error) {
	c.mu.Lock()
	if c.conn != conn {
		// Superseded: Disconnect or a redial already replaced this
		// connection and handled the state change.
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.connectedAt = time.Time{}

	emits := make([]Status, 0, 2)
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		c.logger.Info("Bridge closed the connection", "reason", err)
		if c.setStatusLocked(StatusDisconnected) {
			emits = append(emits, StatusDisconnected)
		}
	} else {
		c.recordFailureLocked(err)
		c.logger.Warn("Bridge connection lost", "error", err)
		if c.setStatusLocked(StatusError) {
			emits = append(emits, StatusError)
		}
	}
	if c.scheduleReconnectLocked() {
		emits = append(emits, StatusError)
	}
	c.mu.Unlock()

	for _, status := range emits {
		c.emitStatus(status)
	}
}

// scheduleReconnectLocked arranges the next automatic connect attempt,
// backing off exponentially per attempt. It returns true when the attempt
// budget is exhausted and the status moved to StatusError; the caller
// emits that transition after unlocking.
func (c *Client) scheduleReconnectLocked() bool {
	if c.intentional {
		return false
	}
	if c.reconnectTimer != nil {
		return false
	}
	if c.attempts >= c.reconnect.MaxAttempts {
		c.logger.Error("Reconnect attempts exhausted, waiting for explicit connect",
			"attempts", c.attempts)
		return c.setStatusLocked(StatusError)
	}

	c.attempts++
	delay := c.reconnect.DelayFor(c.attempts)
	if c.metrics != nil {
		c.metrics.RecordReconnectAttempt(c.id)
	}
	c.logger.Info("Scheduling reconnect", "attempt", c.attempts, "delay", delay)
	c.reconnectTimer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		c.reconnectTimer = nil
		c.mu.Unlock()
		_ = c.connect(context.Background(), false)
	})
	return false
}

// dispatch routes one inbound frame. Data events write exactly one
// snapshot entry, server errors go to the error handler, and anything
// malformed or unknown is dropped with a warning. Dispatch never panics
// on server input.
func (c *Client) dispatch(data []byte) {
	ev, err := wire.ParseEvent(data)
	if err != nil {
		c.logger.Warn("Dropping malformed event", "error", err)
		if c.metrics != nil {
			c.metrics.RecordMalformedEvent(c.id, "decode")
		}
		return
	}

	c.eventsReceived.Add(1)
	c.lastEventNano.Store(time.Now().UnixNano())
	if c.metrics != nil {
		c.metrics.RecordEventReceived(c.id, string(ev.Type))
	}

	switch ev.Type {
	case wire.EventSystemStats:
		c.cacheWrite(ChannelStats, ev.Payload)
	case wire.EventMediaUpdate:
		c.cacheWrite(ChannelMedia, ev.Payload)
	case wire.EventProcessList:
		c.cacheWrite(ChannelProcesses, ev.Payload)
	case wire.EventMediaFeedback:
		c.cacheWrite(ChannelMediaFeedback, ev.Payload)
	case wire.EventProcessFeedback:
		c.cacheWrite(ChannelProcessFeedback, ev.Payload)
	case wire.EventConnected:
		ack, _ := ev.Payload.(*wire.ConnectedPayload)
		if ack != nil {
			c.logger.Info("Bridge session established", "message", ack.Message)
		} else {
			c.logger.Info("Bridge session established")
		}
	case wire.EventError:
		p := ev.Err()
		c.logger.Warn("Bridge reported an error", "message", p.Message, "code", p.Code)
		if c.errorHandler != nil {
			c.errorHandler(TransportError{
				Source:       "transport",
				Code:         p.Code,
				Message:      p.Message,
				ConnectionID: c.id,
			})
		}
	default:
		c.logger.Warn("Dropping unknown event type", "type", string(ev.Type))
		if c.metrics != nil {
			c.metrics.RecordMalformedEvent(c.id, "unknown_type")
		}
	}
}

func (c *Client) cacheWrite(channel string, value any) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(c.id, channel, value); err != nil {
		c.logger.Warn("Snapshot write failed", "channel", channel, "error", err)
		return
	}
	if c.metrics != nil {
		c.metrics.RecordCacheWrite(c.id, channel)
	}
}

func (c *Client) writeCommand(conn *websocket.Conn, cmd *wire.Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return errors.WrapInvalid(err, "bridgeclient", "writeCommand", "marshal command")
	}

	c.writeMu.Lock()
	err = conn.WriteMessage(websocket.TextMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		return errors.WrapTransient(err, "bridgeclient", "writeCommand", "write")
	}

	if c.metrics != nil {
		c.metrics.RecordCommandSent(c.id, string(cmd.Op))
	}
	return nil
}

// setStatusLocked records a status change and reports whether it was a
// transition. The handler callback runs after the lock is released, so
// callers emit the returned transitions themselves.
func (c *Client) setStatusLocked(status Status) bool {
	if c.status == status {
		return false
	}
	c.status = status
	if c.metrics != nil {
		c.metrics.RecordConnectionStatus(c.id, int(status))
	}
	return true
}

func (c *Client) emitStatus(status Status) {
	if c.statusHandler != nil {
		c.statusHandler(status)
	}
}

func (c *Client) recordFailureLocked(err error) {
	c.lastError = err.Error()
	c.errorCount++
}
