// Circuit breaker shared by all calls to one upstream.
//
// The breaker is a Closed/Open/Half-Open state machine evaluated over a
// count-based sliding window of recent call outcomes. It is process-wide per
// upstream and accessed concurrently by every in-flight request targeting
// that upstream, so all state lives behind a single mutex. A race that merely
// delays opening would be acceptable, but corrupted state must never cause
// incorrect short-circuiting; the mutex keeps transitions exact.
package client

import (
	"sync"
	"time"
)

// BreakerState enumerates the circuit breaker states.
type BreakerState int

const (
	// BreakerClosed passes calls through and tracks outcomes.
	BreakerClosed BreakerState = iota
	// BreakerOpen short-circuits calls without touching the transport.
	BreakerOpen
	// BreakerHalfOpen lets a limited number of trial calls through.
	BreakerHalfOpen
)

// String returns the lowercase state name for logs and metrics.
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerSettings configures a Breaker. All thresholds come from
// configuration; none are hardcoded in the state machine.
type BreakerSettings struct {
	// FailureRate is the failure percentage (0,100] at which the breaker
	// opens, evaluated only once MinimumCalls outcomes are in the window.
	FailureRate float64
	// MinimumCalls is both the sliding-window size and the minimum call
	// volume required before the failure rate is evaluated.
	MinimumCalls int
	// Cooldown is how long the breaker stays open before allowing trials.
	Cooldown time.Duration
	// HalfOpenCalls caps concurrent trial calls in the half-open state.
	HalfOpenCalls int
	// OnStateChange, when set, is invoked after every state transition with
	// the upstream name and the new state. Used to export breaker state as a
	// metric. The callback must not call back into the breaker.
	OnStateChange func(name string, state BreakerState)
}

// Breaker is a per-upstream circuit breaker. The zero value is not usable;
// construct with NewBreaker.
type Breaker struct {
	name     string
	settings BreakerSettings

	mu       sync.Mutex
	state    BreakerState
	window   []bool // ring buffer of outcomes, true = failure
	next     int    // next write position in window
	filled   int    // number of recorded outcomes, caps at len(window)
	failures int    // failures currently in the window
	openedAt time.Time
	trials   int // trial calls admitted since entering half-open

	now func() time.Time // injectable clock for tests
}

// NewBreaker constructs a closed Breaker named after its upstream.
func NewBreaker(name string, s BreakerSettings) *Breaker {
	if s.MinimumCalls < 1 {
		s.MinimumCalls = 1
	}
	if s.HalfOpenCalls < 1 {
		s.HalfOpenCalls = 1
	}
	return &Breaker{
		name:     name,
		settings: s,
		state:    BreakerClosed,
		window:   make([]bool, s.MinimumCalls),
		now:      time.Now,
	}
}

// Name returns the upstream name the breaker guards.
func (b *Breaker) Name() string { return b.name }

// State returns the current state, transitioning Open to Half-Open first if
// the cooldown has elapsed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maybeProbe()
	return b.state
}

// Allow reports whether a call may proceed to the transport. While open it
// returns false until the cooldown elapses; in half-open it admits at most
// HalfOpenCalls trials whose outcomes decide the next state.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.maybeProbe()

	switch b.state {
	case BreakerClosed:
		return true
	case BreakerHalfOpen:
		if b.trials < b.settings.HalfOpenCalls {
			b.trials++
			return true
		}
		return false
	default: // BreakerOpen
		return false
	}
}

// RecordSuccess records a successful transport outcome for a call previously
// admitted by Allow. A trial success closes the breaker.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.push(false)
		b.maybeOpen()
	case BreakerHalfOpen:
		b.toClosed()
	}
}

// RecordFailure records a failed transport outcome (timeout, connection
// error, 5xx). A trial failure reopens the breaker and restarts the cooldown.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.push(true)
		b.maybeOpen()
	case BreakerHalfOpen:
		b.toOpen()
	}
}

// maybeOpen opens the breaker once the window holds MinimumCalls outcomes and
// the failure rate reaches the threshold. Evaluated after every recorded
// outcome, not just failures: the window can first reach minimum volume on a
// success while earlier failures still dominate it. Caller must hold b.mu.
func (b *Breaker) maybeOpen() {
	if b.filled >= b.settings.MinimumCalls && b.rate() >= b.settings.FailureRate {
		b.toOpen()
	}
}

// maybeProbe moves Open to Half-Open once the cooldown has elapsed.
// Caller must hold b.mu.
func (b *Breaker) maybeProbe() {
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.settings.Cooldown {
		b.state = BreakerHalfOpen
		b.trials = 0
		b.notify()
	}
}

// push records one outcome in the sliding window. Caller must hold b.mu.
func (b *Breaker) push(failure bool) {
	if b.filled == len(b.window) && b.window[b.next] {
		b.failures-- // outcome being evicted was a failure
	}
	b.window[b.next] = failure
	if failure {
		b.failures++
	}
	b.next = (b.next + 1) % len(b.window)
	if b.filled < len(b.window) {
		b.filled++
	}
}

// rate returns the failure percentage over the current window.
// Caller must hold b.mu.
func (b *Breaker) rate() float64 {
	if b.filled == 0 {
		return 0
	}
	return float64(b.failures) / float64(b.filled) * 100.0
}

// toOpen transitions to Open and restarts the cooldown. Caller must hold b.mu.
func (b *Breaker) toOpen() {
	b.state = BreakerOpen
	b.openedAt = b.now()
	b.trials = 0
	b.notify()
}

// toClosed transitions to Closed and resets all counters. Caller must hold b.mu.
func (b *Breaker) toClosed() {
	b.state = BreakerClosed
	b.window = make([]bool, b.settings.MinimumCalls)
	b.next = 0
	b.filled = 0
	b.failures = 0
	b.trials = 0
	b.notify()
}

// notify fires the state-change callback, if any. Caller must hold b.mu.
func (b *Breaker) notify() {
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, b.state)
	}
}
