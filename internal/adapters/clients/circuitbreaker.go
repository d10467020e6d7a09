package clients

import (
	"sync"
	"time"
)

// State is the circuit breaker state.
type State int

const (
	// StateClosed lets every generation request through.
	StateClosed State = iota

	// StateOpen rejects requests; the provider serves fallback quotes.
	StateOpen

	// StateHalfOpen lets a few probe requests through.
	StateHalfOpen
)

var stateNames = [...]string{
	StateClosed:   "closed",
	StateOpen:     "open",
	StateHalfOpen: "half-open",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}

	return stateNames[s]
}

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	// MaxFailures consecutive failures open the circuit.
	MaxFailures int

	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration

	// HalfOpenLimit caps concurrent probes, and is also the number of
	// successful probes that close the circuit again.
	HalfOpenLimit int
}

// CircuitBreaker stops calling the generator after repeated failures so a
// dead endpoint costs one fast fallback instead of a full timeout per quote.
//
//	closed    --MaxFailures failures-->  open
//	open      --Timeout elapsed------->  half-open
//	half-open --HalfOpenLimit wins---->  closed
//	half-open --any failure----------->  open
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	probes   int
	wins     int
	openedAt time.Time
	notify   func(from, to State)
}

// NewCircuitBreaker returns a closed circuit breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures < 1 {
		cfg.MaxFailures = 1
	}

	if cfg.HalfOpenLimit < 1 {
		cfg.HalfOpenLimit = 1
	}

	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// OnStateChange registers fn to run after every transition. fn runs on the
// caller's goroutine once the breaker's lock is released.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	cb.notify = fn
	cb.mu.Unlock()
}

// Allow reports whether a request may proceed. An allowed request must be
// followed by RecordSuccess or RecordFailure.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()

	var from State
	changed := false
	allowed := false

	switch cb.state {
	case StateClosed:
		allowed = true

	case StateOpen:
		if cb.now().Sub(cb.openedAt) >= cb.cfg.Timeout {
			from, changed = cb.set(StateHalfOpen)
			cb.probes = 1
			allowed = true
		}

	case StateHalfOpen:
		if cb.probes < cb.cfg.HalfOpenLimit {
			cb.probes++
			allowed = true
		}
	}

	notify := cb.notify
	cb.mu.Unlock()

	if changed && notify != nil {
		notify(from, StateHalfOpen)
	}

	return allowed
}

// RecordSuccess records a request that reached the generator and got a usable status.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.record(true)
}

// RecordFailure records a transport error or a status that counts against the generator.
func (cb *CircuitBreaker) RecordFailure() {
	cb.record(false)
}

func (cb *CircuitBreaker) record(ok bool) {
	cb.mu.Lock()

	var from, to State
	changed := false

	switch cb.state {
	case StateClosed:
		if ok {
			cb.failures = 0
			break
		}

		cb.failures++
		if cb.failures >= cb.cfg.MaxFailures {
			to = StateOpen
			from, changed = cb.set(to)
		}

	case StateHalfOpen:
		if cb.probes > 0 {
			cb.probes--
		}

		if !ok {
			to = StateOpen
			from, changed = cb.set(to)
			break
		}

		cb.wins++
		if cb.wins >= cb.cfg.HalfOpenLimit {
			to = StateClosed
			from, changed = cb.set(to)
		}
	}

	notify := cb.notify
	cb.mu.Unlock()

	if changed && notify != nil {
		notify(from, to)
	}
}

// set moves to state and resets the counters. Must be called with mu held.
func (cb *CircuitBreaker) set(state State) (State, bool) {
	from := cb.state
	if from == state {
		return from, false
	}

	cb.state = state
	cb.failures = 0
	cb.wins = 0

	if state == StateOpen {
		cb.openedAt = cb.now()
		cb.probes = 0
	}

	return from, true
}

// State returns the current state. An open circuit whose timeout has passed
// still reports open until the next Allow.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// RetryAt returns when an open circuit will next let a probe through, or the
// zero time when the circuit is not open.
func (cb *CircuitBreaker) RetryAt() time.Time {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return time.Time{}
	}

	return cb.openedAt.Add(cb.cfg.Timeout)
}
