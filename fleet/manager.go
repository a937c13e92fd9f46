// Package fleet runs one managed bridge connection per roster record. The
// manager consumes configstore changes, keeps a bridgeclient per bridge,
// funnels their events into a shared snapshot store, and mirrors every
// connection's state in a health monitor.
package fleet

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360/bridgelink/bridgeclient"
	"github.com/c360/bridgelink/configstore"
	"github.com/c360/bridgelink/errors"
	"github.com/c360/bridgelink/health"
	"github.com/c360/bridgelink/metric"
	"github.com/c360/bridgelink/snapshot"
)

// Manager owns the fleet of bridge connections described by a roster.
type Manager struct {
	logger   *slog.Logger
	store    *configstore.Store
	cache    *snapshot.Store
	health   *health.Monitor
	registry *metric.MetricsRegistry

	// clientOpts are applied to every managed client before the
	// manager's own handlers.
	clientOpts []bridgeclient.Option

	mu      sync.Mutex
	clients map[string]*bridgeclient.Client

	changes <-chan configstore.Change

	// Lifecycle management
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}
	doneOnce     sync.Once
	started      atomic.Bool
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	lifecycleMu  sync.Mutex
}

// Option configures a Manager during construction.
type Option func(*Manager) error

// WithLogger sets the logger. A nil logger selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithMetricsRegistry wires the shared metrics registry into every managed
// client. Nil disables metrics.
func WithMetricsRegistry(registry *metric.MetricsRegistry) Option {
	return func(m *Manager) error {
		m.registry = registry
		return nil
	}
}

// WithClientOptions adds options applied to every client the manager
// builds. Status, error, and cache handlers set here are replaced by the
// manager's own wiring.
func WithClientOptions(opts ...bridgeclient.Option) Option {
	return func(m *Manager) error {
		m.clientOpts = append(m.clientOpts, opts...)
		return nil
	}
}

// New builds a manager over the given roster store. cache may be nil when
// no snapshot fan-in is wanted.
func New(store *configstore.Store, cache *snapshot.Store, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("roster store cannot be nil"),
			"fleet", "New", "validation failed")
	}

	m := &Manager{
		logger:   slog.Default(),
		store:    store,
		cache:    cache,
		health:   health.NewMonitor(),
		clients:  make(map[string]*bridgeclient.Client),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, errors.WrapInvalid(err, "fleet", "New", "apply option")
		}
	}

	return m, nil
}

// Start begins consuming roster changes. The store replays the current
// roster as added changes, so existing bridges are built (and auto-connect
// ones dialed) without a separate pass.
func (m *Manager) Start(ctx context.Context) error {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()

	if m.started.Load() {
		return errors.WrapFatal(errors.ErrAlreadyStarted, "fleet", "Start", "check started state")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.changes = m.store.Watch()

	m.wg.Add(1)
	go m.watchRoster(runCtx, m.changes)

	m.started.Store(true)
	m.logger.Info("Fleet manager started")
	return nil
}

// Stop disconnects every managed bridge and waits for the roster watcher
// to finish, up to timeout. The manager cannot be restarted.
func (m *Manager) Stop(timeout time.Duration) error {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()

	if !m.started.Load() {
		return nil
	}

	m.shutdownOnce.Do(func() {
		close(m.shutdown)
	})
	m.cancel()
	m.store.Unwatch(m.changes)

	m.mu.Lock()
	clients := make(map[string]*bridgeclient.Client, len(m.clients))
	for id, client := range m.clients {
		clients[id] = client
	}
	m.clients = make(map[string]*bridgeclient.Client)
	m.mu.Unlock()

	for id, client := range clients {
		client.Disconnect()
		m.health.UpdateInactive(id, "Fleet manager stopped")
	}

	doneCh := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(doneCh)
	}()

	select {
	case <-doneCh:
	case <-time.After(timeout):
		return errors.WrapTransient(
			fmt.Errorf("shutdown timeout after %v", timeout),
			"fleet", "Stop", "wait for roster watcher")
	}

	m.doneOnce.Do(func() {
		close(m.done)
	})
	m.started.Store(false)
	m.logger.Info("Fleet manager stopped", "bridges", len(clients))
	return nil
}

// Client returns the managed client for a bridge id.
func (m *Manager) Client(id string) (*bridgeclient.Client, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	client, ok := m.clients[id]
	return client, ok
}

// IDs returns the managed bridge ids in sorted order.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.clients))
	for id := range m.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Monitor exposes the per-bridge health monitor.
func (m *Manager) Monitor() *health.Monitor {
	return m.health
}

// Health aggregates every bridge's health into one fleet status. Per-bridge
// sub-statuses are ordered by bridge ID.
func (m *Manager) Health() health.Status {
	return m.health.AggregateHealth("fleet")
}

func (m *Manager) watchRoster(ctx context.Context, changes <-chan configstore.Change) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.shutdown:
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			m.apply(ctx, change)
		}
	}
}

func (m *Manager) apply(ctx context.Context, change configstore.Change) {
	switch change.Op {
	case configstore.OpAdded:
		m.addBridge(ctx, change.Record)
	case configstore.OpUpdated:
		m.updateBridge(ctx, change.Record)
	case configstore.OpRemoved:
		m.removeBridge(change.Record)
	default:
		m.logger.Warn("Ignoring unknown roster change", "op", string(change.Op))
	}
}

func (m *Manager) addBridge(ctx context.Context, record configstore.Record) {
	m.mu.Lock()
	if _, exists := m.clients[record.ID]; exists {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	client, err := m.buildClient(record)
	if err != nil {
		m.logger.Error("Failed to build bridge client",
			"bridge_id", record.ID,
			"name", record.Name,
			"error", err)
		m.health.UpdateUnhealthy(record.ID, "Client construction failed")
		return
	}

	m.mu.Lock()
	m.clients[record.ID] = client
	m.mu.Unlock()

	m.observeStatus(record.ID)
	m.logger.Info("Bridge joined fleet",
		"bridge_id", record.ID,
		"name", record.Name,
		"address", record.Address(),
		"auto_connect", record.AutoConnect)

	if record.AutoConnect {
		if err := client.Connect(ctx); err != nil {
			// The client keeps retrying on its own schedule.
			m.logger.Warn("Initial connect failed",
				"bridge_id", record.ID,
				"error", err)
		}
	}
}

func (m *Manager) updateBridge(ctx context.Context, record configstore.Record) {
	m.mu.Lock()
	client, ok := m.clients[record.ID]
	m.mu.Unlock()

	if !ok {
		// An update for a bridge that never built, rebuild from scratch.
		m.addBridge(ctx, record)
		return
	}

	if err := client.UpdateConfig(ctx, record.ClientConfig()); err != nil {
		m.logger.Error("Failed to apply updated bridge config",
			"bridge_id", record.ID,
			"name", record.Name,
			"error", err)
		return
	}
	m.logger.Info("Bridge config updated",
		"bridge_id", record.ID,
		"name", record.Name,
		"address", record.Address())
}

func (m *Manager) removeBridge(record configstore.Record) {
	m.mu.Lock()
	client, ok := m.clients[record.ID]
	if ok {
		delete(m.clients, record.ID)
	}
	m.mu.Unlock()

	if !ok {
		return
	}

	client.Disconnect()
	if m.cache != nil {
		dropped := m.cache.DeleteConnection(record.ID)
		if dropped > 0 {
			m.logger.Debug("Dropped cached snapshots",
				"bridge_id", record.ID,
				"entries", dropped)
		}
	}
	m.health.Remove(record.ID)
	m.logger.Info("Bridge left fleet", "bridge_id", record.ID, "name", record.Name)
}

func (m *Manager) buildClient(record configstore.Record) (*bridgeclient.Client, error) {
	id := record.ID

	opts := make([]bridgeclient.Option, 0, len(m.clientOpts)+5)
	opts = append(opts, m.clientOpts...)
	opts = append(opts,
		bridgeclient.WithLogger(m.logger.With("bridge", record.Name)),
		bridgeclient.WithStatusHandler(func(bridgeclient.Status) {
			m.observeStatus(id)
		}),
		bridgeclient.WithErrorHandler(func(te bridgeclient.TransportError) {
			m.observeError(id, te)
		}),
	)
	if m.cache != nil {
		opts = append(opts, bridgeclient.WithCacheSink(m.cache))
	}
	if m.registry != nil {
		opts = append(opts, bridgeclient.WithMetricsRegistry(m.registry))
	}

	return bridgeclient.New(id, record.ClientConfig(), opts...)
}

// observeStatus refreshes the monitor entry for a managed bridge. Clients
// that already left the fleet are ignored.
func (m *Manager) observeStatus(id string) {
	m.mu.Lock()
	client, ok := m.clients[id]
	m.mu.Unlock()
	if !ok {
		return
	}

	status := client.Health()
	m.health.Update(id, status)
	if m.registry != nil {
		m.registry.CoreMetrics().RecordHealthStatus(id, status.IsHealthy())
	}
}

func (m *Manager) observeError(id string, te bridgeclient.TransportError) {
	message := te.Message
	if te.Code != "" {
		message = fmt.Sprintf("%s (%s)", te.Message, te.Code)
	}
	m.health.UpdateDegraded(id, message)
	m.logger.Warn("Bridge reported an error",
		"bridge_id", id,
		"code", te.Code,
		"message", te.Message)
}
