package wire

import (
	"encoding/json"

	"github.com/c360/bridgelink/errors"
)

// EventType discriminates inbound events.
type EventType string

// Event types the bridge broadcasts.
const (
	EventSystemStats     EventType = "system_stats"
	EventMediaUpdate     EventType = "media_update"
	EventProcessList     EventType = "process_list"
	EventMediaFeedback   EventType = "media_feedback"
	EventProcessFeedback EventType = "process_feedback"
	EventConnected       EventType = "connected"
	EventError           EventType = "error"
)

// ConnectedPayload is the server's session acknowledgment.
type ConnectedPayload struct {
	Message string `json:"message"`
}

// ErrorPayload is a server-reported application error. It does not imply the
// connection is unhealthy.
type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Event is one decoded inbound message. Payload holds the typed payload for
// known event types, or the raw JSON for unknown ones.
type Event struct {
	Type    EventType
	Payload any
}

// Known reports whether the event type is part of the current protocol.
func (e *Event) Known() bool {
	switch e.Type {
	case EventSystemStats, EventMediaUpdate, EventProcessList,
		EventMediaFeedback, EventProcessFeedback, EventConnected, EventError:
		return true
	default:
		return false
	}
}

// Stats returns the payload of a system_stats event, or nil for other types.
func (e *Event) Stats() *StatsPayload {
	p, _ := e.Payload.(*StatsPayload)
	return p
}

// Media returns the payload of a media_update event, or nil for other types.
func (e *Event) Media() *MediaStatus {
	p, _ := e.Payload.(*MediaStatus)
	return p
}

// Processes returns the payload of a process_list event, or nil for other types.
func (e *Event) Processes() *ProcessListPayload {
	p, _ := e.Payload.(*ProcessListPayload)
	return p
}

// Feedback returns the payload of a media_feedback or process_feedback
// event, or nil for other types.
func (e *Event) Feedback() *OperationFeedback {
	p, _ := e.Payload.(*OperationFeedback)
	return p
}

// Err returns the payload of an error event, or nil for other types.
func (e *Event) Err() *ErrorPayload {
	p, _ := e.Payload.(*ErrorPayload)
	return p
}

type eventEnvelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ParseEvent decodes one inbound frame. The payload is decoded exactly once,
// into the concrete type for the event's tag. Unknown tags are not an error;
// the raw payload is preserved so callers can log and drop them.
func ParseEvent(data []byte) (*Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.WrapInvalid(err, "wire", "ParseEvent", "decode envelope")
	}
	if env.Type == "" {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "wire", "ParseEvent", "read type tag")
	}

	ev := &Event{Type: env.Type}

	var payload any
	switch env.Type {
	case EventSystemStats:
		payload = &StatsPayload{}
	case EventMediaUpdate:
		payload = &MediaStatus{}
	case EventProcessList:
		payload = &ProcessListPayload{}
	case EventMediaFeedback, EventProcessFeedback:
		payload = &OperationFeedback{}
	case EventConnected:
		payload = &ConnectedPayload{}
	case EventError:
		payload = &ErrorPayload{}
	default:
		ev.Payload = env.Data
		return ev, nil
	}

	// Tolerate a missing data field the way browser clients do.
	if len(env.Data) == 0 {
		env.Data = json.RawMessage("{}")
	}
	if err := json.Unmarshal(env.Data, payload); err != nil {
		return nil, errors.WrapInvalid(err, "wire", "ParseEvent", "decode "+string(env.Type)+" payload")
	}
	ev.Payload = payload
	return ev, nil
}
