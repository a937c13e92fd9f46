package bridgeclient

import (
	"sort"
	"time"

	"github.com/c360/bridgelink/wire"
)

// Subscription is the handle returned by Subscribe. Each handle releases
// its topic hold at most once; calling Unsubscribe twice on the same handle
// under-counts a topic other callers still hold. That contract is the
// caller's to keep, the client only guards against releasing topics it no
// longer tracks.
type Subscription struct {
	client *Client
	topic  string
}

// Topic returns the subscribed topic
func (s *Subscription) Topic() string {
	return s.topic
}

// Unsubscribe releases this handle's hold on the topic. When the last
// holder releases, the topic leaves the wire-level subscription set on the
// next batched sync.
func (s *Subscription) Unsubscribe() {
	c := s.client
	c.mu.Lock()
	n, ok := c.refs[s.topic]
	if !ok {
		c.mu.Unlock()
		return
	}
	n--
	if n <= 0 {
		delete(c.refs, s.topic)
		c.scheduleSyncLocked()
	} else {
		c.refs[s.topic] = n
	}
	c.mu.Unlock()
}

// Subscribe registers interest in a topic. Multiple callers subscribing to
// the same topic share one wire-level subscription; the bridge sees the
// topic once while at least one handle is held. Topics are opaque strings,
// their namespace is a caller and server contract.
//
// The server's subscribe operation replaces its whole topic set, so the
// wire message is deferred by SyncDelay and coalesced with every other
// subscription change in the same window.
func (c *Client) Subscribe(topic string) *Subscription {
	c.mu.Lock()
	c.refs[topic]++
	if c.refs[topic] == 1 {
		c.scheduleSyncLocked()
	}
	c.mu.Unlock()
	return &Subscription{client: c, topic: topic}
}

// Topics returns the sorted topic set callers currently hold
func (c *Client) Topics() []string {
	c.mu.Lock()
	topics := make([]string, 0, len(c.refs))
	for topic := range c.refs {
		topics = append(topics, topic)
	}
	c.mu.Unlock()
	sort.Strings(topics)
	return topics
}

// scheduleSyncLocked arms the coalescing timer. A pending flush picks up
// every refcount change made before it runs, so one timer is enough.
func (c *Client) scheduleSyncLocked() {
	if c.syncTimer != nil {
		return
	}
	c.syncTimer = time.AfterFunc(c.syncDelay, c.flushSubscriptions)
}

// flushSubscriptions sends one subscribe command carrying the full current
// topic set. Nothing is sent while the socket is closed (the flush after
// the next open covers it) or when no topics remain; the server is never
// sent an empty replacement list.
func (c *Client) flushSubscriptions() {
	c.mu.Lock()
	if c.syncTimer != nil {
		c.syncTimer.Stop()
		c.syncTimer = nil
	}
	conn := c.conn
	if conn == nil || len(c.refs) == 0 {
		c.mu.Unlock()
		return
	}
	topics := make([]string, 0, len(c.refs))
	for topic := range c.refs {
		topics = append(topics, topic)
	}
	c.mu.Unlock()

	sort.Strings(topics)
	if err := c.writeCommand(conn, wire.Subscribe(topics)); err != nil {
		c.logger.Warn("Subscription sync failed", "error", err)
		return
	}
	if c.metrics != nil {
		c.metrics.RecordSyncFlush(c.id)
	}
	c.logger.Debug("Synced subscriptions", "topics", topics)
}
