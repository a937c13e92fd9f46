// Package retry provides simple exponential backoff retry logic for transient failures.
//
// # Overview
//
// This package offers a minimal retry mechanism with exponential backoff, designed to handle
// transient failures in network operations, resource initialization, and component startup.
//
// # Core Functions
//
//   - Do: Execute function with retry and exponential backoff
//   - DoWithResult: Execute function with retry, returns both result and error
//   - Config.DelayFor: Compute the delay for a given attempt, for callers that
//     schedule their own timers instead of blocking
//
// # Usage Examples
//
// Basic retry with defaults:
//
//	err := retry.Do(ctx, retry.DefaultConfig(), func() error {
//	    return client.Ping(ctx)
//	})
//
// Retry with result:
//
//	info, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*SystemInfo, error) {
//	    return client.SystemInfo(ctx)
//	})
//
// Timer-driven backoff (reconnect scheduling):
//
//	cfg := retry.Config{
//	    MaxAttempts:  5,
//	    InitialDelay: time.Second,
//	    MaxDelay:     30 * time.Second,
//	    Multiplier:   2.0,
//	}
//	delay := cfg.DelayFor(attempt) // 1s, 2s, 4s, 8s, 16s
//
// # Design Philosophy
//
// This package is intentionally minimal:
//
//   - No circuit breakers (use service mesh or separate package)
//   - No metrics collection (use instrumentation at call site)
//   - No complex error classification (caller decides what to retry)
//   - Just exponential backoff with jitter
//
// # Context Cancellation
//
// All retry operations respect context cancellation and will immediately stop retrying
// when the context is cancelled, either during operation execution or during backoff delay.
//
// # Thread Safety
//
// All functions are safe for concurrent use. The jitter mechanism uses a thread-safe
// random source to avoid contention.
package retry
