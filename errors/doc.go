// Package errors provides standardized error handling patterns for BridgeLink components.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Transient (temporary, retryable), Invalid (bad input, non-retryable), and
// Fatal (unrecoverable, stop processing).
//
// This classification enables intelligent error handling strategies throughout
// BridgeLink, allowing components to make informed decisions about retries,
// graceful degradation, and failure recovery without hardcoded error string
// matching.
//
// # Error Classification
//
// Errors are automatically classified based on their type or content:
//
//   - Transient: Network timeouts, connection issues, temporary unavailability (retry recommended)
//   - Invalid: Malformed input, validation failures, unknown message types (do not retry)
//   - Fatal: Bad configuration, closed stores, unrecoverable states (stop processing)
//
// The classification system integrates seamlessly with Go's standard error handling
// patterns, supporting errors.Is(), errors.As(), and error wrapping chains.
//
// # Quick Start
//
// Use standard error variables for common conditions:
//
//	if !client.IsConnected() {
//	    return errors.ErrNotConnected
//	}
//
// Wrap errors with context for debugging:
//
//	if err := json.Unmarshal(data, &event); err != nil {
//	    return errors.WrapInvalid(err, "Client", "handleMessage", "decode event")
//	}
//
// Check classification for retry logic:
//
//	if err := op(); err != nil && errors.IsTransient(err) {
//	    // retry with backoff
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// This format enables consistent log parsing, debugging, and operational
// monitoring across the platform. The Wrap family of functions automatically
// applies this pattern while preserving error classification through the chain.
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapTransient(err, "Component", "Method", "action")  // For retryable errors
//	errors.WrapInvalid(err, "Component", "Method", "action")    // For validation errors
//	errors.WrapFatal(err, "Component", "Method", "action")      // For unrecoverable errors
//
// # Standard Error Variables
//
// Pre-defined error variables cover common conditions, organized by category:
//
//   - Component lifecycle: ErrAlreadyStarted, ErrNotStarted, ErrAlreadyStopped
//   - Connection issues: ErrNotConnected, ErrConnectionLost, ErrConnectionTimeout
//   - Protocol handling: ErrInvalidData, ErrParsingFailed, ErrUnknownType
//   - Stores: ErrKeyNotFound, ErrRecordNotFound, ErrStoreClosed
//   - Remote requests: ErrRequestFailed, ErrUnauthorized, ErrFeatureDisabled
//
// Use these variables instead of creating custom error messages for consistency.
//
// # Integration with errors.As/Is
//
// All error types support standard library error inspection:
//
//	var ce *errors.ClassifiedError
//	if errors.As(err, &ce) {
//	    log.Printf("Component: %s, Class: %s", ce.Component, ce.Class)
//	}
//
//	wrapped := errors.Wrap(errors.ErrConnectionTimeout, "Client", "Connect", "dial")
//	if errors.IsTransient(wrapped) {  // true - classification preserved
//	    // Retry logic
//	}
//
// # Thread Safety
//
// All classification and wrapping operations are thread-safe. Error variables
// are immutable constants safe for concurrent access. The ClassifiedError type
// is safe to share across goroutines after creation.
//
// # Architecture Integration
//
// The errors package integrates with other BridgeLink components:
//
//   - bridgeclient: wraps dial and decode failures with connection context
//   - restapi: maps HTTP failure responses onto classified errors for retry decisions
//   - configstore/snapshot: use store error variables for lookup misses
//   - retry: uses error classification for retry decisions
package errors
