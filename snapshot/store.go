// Package snapshot provides a thread-safe latest-value store for bridge event data.
//
// Each bridge connection publishes typed payloads on named channels (stats,
// media, processes). The store keeps only the most recent value per
// (connection, channel) pair, with built-in statistics and optional Prometheus
// metrics. Watchers subscribe to key patterns and receive updates as new
// values arrive.
package snapshot

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360/bridgelink/errors"
)

// watchBuffer is the per-watcher channel depth. Watch sends the current
// matching entries at subscribe time, so the buffer must hold a typical
// channel set; beyond that, slow watchers miss intermediate updates and
// read the latest value with Get.
const watchBuffer = 16

// Key identifies one stored value by connection id and channel name.
type Key struct {
	ConnectionID string
	Channel      string
}

// String returns the dotted form used for watch pattern matching.
func (k Key) String() string {
	return k.ConnectionID + "." + k.Channel
}

// Entry is a stored value with metadata.
type Entry struct {
	Key       Key
	Value     any
	CreatedAt time.Time // first write for this key
	UpdatedAt time.Time // most recent write
}

// Update is delivered to watchers when a value changes.
type Update struct {
	Key   Key
	Value any
	At    time.Time
}

// Store is a thread-safe latest-value store keyed by (connection, channel).
type Store struct {
	mu          sync.RWMutex
	entries     map[Key]Entry
	subscribers map[string][]chan Update
	stats       *Statistics
	metrics     *storeMetrics
	closed      atomic.Bool
}

// New creates a snapshot store.
// Returns an error if metrics registration fails when requested.
func New(options ...Option) (*Store, error) {
	opts := applyOptions(options...)

	// Stats are ALWAYS initialized - observability is not optional
	stats := NewStatistics()

	var metrics *storeMetrics
	// Optionally expose stats as Prometheus metrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		var err error
		metrics, err = newStoreMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "snapshot", "New", "metrics registration")
		}
	}

	return &Store{
		entries:     make(map[Key]Entry),
		subscribers: make(map[string][]chan Update),
		stats:       stats,
		metrics:     metrics,
	}, nil
}

// validateKey validates the key parts for basic requirements.
func validateKey(connectionID, channel string) error {
	if connectionID == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "snapshot", "validateKey",
			"connection id cannot be empty")
	}
	if channel == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "snapshot", "validateKey",
			"channel cannot be empty")
	}
	return nil
}

// Set stores the latest value for a (connection, channel) pair and notifies
// matching watchers.
func (s *Store) Set(connectionID, channel string, value any) error {
	if err := validateKey(connectionID, channel); err != nil {
		return err
	}
	if s.closed.Load() {
		return errors.WrapFatal(errors.ErrStoreClosed, "snapshot", "Set", "write after close")
	}

	key := Key{ConnectionID: connectionID, Channel: channel}
	now := time.Now()

	s.mu.Lock()
	entry, exists := s.entries[key]
	if exists {
		entry.Value = value
		entry.UpdatedAt = now
	} else {
		entry = Entry{Key: key, Value: value, CreatedAt: now, UpdatedAt: now}
	}
	s.entries[key] = entry
	size := len(s.entries)
	s.mu.Unlock()

	s.stats.Set()
	s.stats.UpdateSize(int64(size))
	if s.metrics != nil {
		s.metrics.recordSet()
		s.metrics.updateSize(size)
	}

	s.notify(Update{Key: key, Value: value, At: now})
	return nil
}

// Get retrieves the latest entry for a (connection, channel) pair.
func (s *Store) Get(connectionID, channel string) (Entry, bool) {
	key := Key{ConnectionID: connectionID, Channel: channel}

	s.mu.RLock()
	entry, exists := s.entries[key]
	s.mu.RUnlock()

	if exists {
		s.stats.Hit()
		if s.metrics != nil {
			s.metrics.recordHit()
		}
	} else {
		s.stats.Miss()
		if s.metrics != nil {
			s.metrics.recordMiss()
		}
	}

	return entry, exists
}

// Delete removes one entry. Returns true if the key existed.
func (s *Store) Delete(connectionID, channel string) (bool, error) {
	if err := validateKey(connectionID, channel); err != nil {
		return false, err
	}
	key := Key{ConnectionID: connectionID, Channel: channel}

	s.mu.Lock()
	_, exists := s.entries[key]
	if exists {
		delete(s.entries, key)
	}
	size := len(s.entries)
	s.mu.Unlock()

	if exists {
		s.stats.Delete()
		s.stats.UpdateSize(int64(size))
		if s.metrics != nil {
			s.metrics.recordDelete()
			s.metrics.updateSize(size)
		}
	}

	return exists, nil
}

// DeleteConnection removes every entry belonging to a connection and returns
// the number of entries removed. Used when a bridge is removed from the fleet.
func (s *Store) DeleteConnection(connectionID string) int {
	s.mu.Lock()
	removed := 0
	for key := range s.entries {
		if key.ConnectionID == connectionID {
			delete(s.entries, key)
			removed++
		}
	}
	size := len(s.entries)
	s.mu.Unlock()

	if removed > 0 {
		for i := 0; i < removed; i++ {
			s.stats.Delete()
		}
		s.stats.UpdateSize(int64(size))
		if s.metrics != nil {
			s.metrics.updateSize(size)
		}
	}

	return removed
}

// Clear removes all entries from the store.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[Key]Entry)
	s.mu.Unlock()

	s.stats.UpdateSize(0)
	if s.metrics != nil {
		s.metrics.updateSize(0)
	}
}

// Size returns the current number of entries in the store.
func (s *Store) Size() int {
	s.mu.RLock()
	size := len(s.entries)
	s.mu.RUnlock()
	return size
}

// Keys returns all keys currently in the store.
func (s *Store) Keys() []Key {
	s.mu.RLock()
	keys := make([]Key, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	s.mu.RUnlock()
	return keys
}

// Connection returns all entries belonging to one connection.
func (s *Store) Connection(connectionID string) []Entry {
	s.mu.RLock()
	entries := make([]Entry, 0, 8)
	for key, entry := range s.entries {
		if key.ConnectionID == connectionID {
			entries = append(entries, entry)
		}
	}
	s.mu.RUnlock()
	return entries
}

// Stats returns store statistics.
func (s *Store) Stats() *Statistics {
	return s.stats
}

// Watch subscribes to value updates matching the pattern and returns a
// buffered channel. The current matching entries are sent immediately so a
// new watcher starts with the latest state. Sends never block; a watcher
// that falls behind misses intermediate updates and can Get the latest.
// Watching a closed store yields a closed channel.
//
// Pattern examples:
//   - "office-pc.stats" - exact match
//   - "office-pc.*" - all channels for one connection
//   - "*" - everything
func (s *Store) Watch(pattern string) <-chan Update {
	ch := make(chan Update, watchBuffer)

	if s.closed.Load() {
		close(ch)
		return ch
	}

	s.mu.Lock()
	s.subscribers[pattern] = append(s.subscribers[pattern], ch)
	watcherCount := s.watcherCountLocked()

	// Send current matching entries while holding the lock so the initial
	// state cannot interleave with a concurrent Set.
	for key, entry := range s.entries {
		if matchesPattern(key.String(), pattern) {
			select {
			case ch <- Update{Key: key, Value: entry.Value, At: entry.UpdatedAt}:
			default:
			}
		}
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.updateWatchers(watcherCount)
	}

	return ch
}

// Unwatch removes a watcher and closes its channel.
func (s *Store) Unwatch(ch <-chan Update) {
	s.mu.Lock()
	for pattern, channels := range s.subscribers {
		for i, sub := range channels {
			if sub == ch {
				s.subscribers[pattern] = append(channels[:i], channels[i+1:]...)
				if len(s.subscribers[pattern]) == 0 {
					delete(s.subscribers, pattern)
				}
				close(sub)
				watcherCount := s.watcherCountLocked()
				s.mu.Unlock()
				if s.metrics != nil {
					s.metrics.updateWatchers(watcherCount)
				}
				return
			}
		}
	}
	s.mu.Unlock()
}

// Close marks the store closed and closes all watcher channels.
// Stored entries remain readable.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil // already closed
	}

	s.mu.Lock()
	for _, channels := range s.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	s.subscribers = make(map[string][]chan Update)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.updateWatchers(0)
	}
	return nil
}

// notify delivers an update to all watchers whose pattern matches the key.
func (s *Store) notify(update Update) {
	key := update.Key.String()

	s.mu.RLock()
	defer s.mu.RUnlock()

	for pattern, channels := range s.subscribers {
		if !matchesPattern(key, pattern) {
			continue
		}
		for _, ch := range channels {
			// Non-blocking send
			select {
			case ch <- update:
				// Sent successfully
			default:
				// Channel full, watcher not keeping up
			}
		}
	}
}

// watcherCountLocked counts subscriber channels. Caller holds s.mu.
func (s *Store) watcherCountLocked() int {
	count := 0
	for _, channels := range s.subscribers {
		count += len(channels)
	}
	return count
}

// matchesPattern checks if a dotted key matches a subscription pattern
func matchesPattern(key, pattern string) bool {
	// Match everything
	if pattern == "*" {
		return true
	}

	// Exact match
	if pattern == key {
		return true
	}

	// Wildcard suffix: "office-pc.*" matches "office-pc.stats"
	if strings.HasSuffix(pattern, ".*") {
		prefix := strings.TrimSuffix(pattern, ".*")
		return strings.HasPrefix(key, prefix+".")
	}

	// Prefix wildcard: "office-*" matches "office-pc.stats"
	if strings.Contains(pattern, "*") {
		parts := strings.SplitN(pattern, "*", 2)
		if len(parts) > 0 {
			return strings.HasPrefix(key, parts[0])
		}
	}

	return false
}

// ParseKey splits a dotted key string back into a Key. The connection id is
// everything before the last dot, so ids containing dots round-trip.
func ParseKey(raw string) (Key, error) {
	idx := strings.LastIndex(raw, ".")
	if idx <= 0 || idx == len(raw)-1 {
		return Key{}, errors.WrapInvalid(errors.ErrInvalidData, "snapshot", "ParseKey",
			fmt.Sprintf("malformed key %q", raw))
	}
	return Key{ConnectionID: raw[:idx], Channel: raw[idx+1:]}, nil
}
