// Package clients provides the instrumented HTTP client used by remote adapters.
package clients

import "errors"

// Client errors are infrastructure failures. Callers translate them into
// domain errors (see the acl package).
var (
	// ErrCircuitOpen is returned without contacting the downstream service
	// while the circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrRequestFailed wraps transport-level failures: DNS, connect, TLS,
	// timeouts and cancellation.
	ErrRequestFailed = errors.New("request failed")
)
