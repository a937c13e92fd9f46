package bridgeclient

import "fmt"

// Status represents the state of a bridge connection
type Status int

// Possible connection statuses
const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
	StatusError
)

// String returns the string representation of Status
func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// StatusHandler receives every connection status transition.
// Handlers run on the goroutine that caused the transition and must not
// call back into the Client.
type StatusHandler func(status Status)

// TransportError is a server-reported error forwarded to the error handler.
// It carries the connection identity so a shared handler can tell bridges
// apart. A TransportError does not imply the connection itself is down.
type TransportError struct {
	Source       string
	Code         string
	Message      string
	ConnectionID string
}

// Error implements the error interface
func (e TransportError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s error on %s: %s (%s)", e.Source, e.ConnectionID, e.Message, e.Code)
	}
	return fmt.Sprintf("%s error on %s: %s", e.Source, e.ConnectionID, e.Message)
}

// ErrorHandler receives server-reported errors. Handlers run on the
// connection's reader goroutine and must not call back into the Client.
type ErrorHandler func(err TransportError)

// CacheSink receives the latest decoded payload for a connection channel.
// The Client writes one entry per inbound data event, keyed by its
// connection ID and a fixed channel name per event type. snapshot.Store
// satisfies this interface.
type CacheSink interface {
	Set(connectionID, channel string, value any) error
}
