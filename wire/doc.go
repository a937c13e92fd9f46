// Package wire defines the bridge protocol surface shared by the WebSocket
// session and the REST wrapper: outbound commands, inbound events, and the
// payload types both directions carry.
//
// # Message Framing
//
// Every WebSocket frame holds one JSON object. Outbound commands are tagged
// by "op" with the payload under "data":
//
//	{"op": "subscribe", "data": {"topics": ["stats", "media"]}}
//
// Inbound events are tagged by "type" with the payload under "data":
//
//	{"type": "media_update", "data": {"status": "ok", "playing": true, ...}}
//
// Field names are snake_case on the wire; payload structs carry the JSON tags
// so callers never hand-build maps.
//
// # Forward Compatibility
//
// ParseEvent decodes the payload for every known event type and preserves the
// raw payload for unknown types so dispatchers can warn and drop without
// failing. A malformed envelope or payload returns a classified invalid
// error; it never panics.
//
// # Topics
//
// Topic strings are opaque to the connection manager, but the bridge expands
// the coarse topics to dotted sub-channels server-side ("stats" covers
// "stats.cpu", "stats.memory", ...). The Topic* constants name the channels
// the bridge ships with.
package wire
