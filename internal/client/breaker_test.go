package client

import (
	"testing"
	"time"
)

func testSettings() BreakerSettings {
	return BreakerSettings{
		FailureRate:   50,
		MinimumCalls:  10,
		Cooldown:      30 * time.Second,
		HalfOpenCalls: 1,
	}
}

// fakeClock installs a controllable clock and returns an advance func.
func fakeClock(b *Breaker) func(d time.Duration) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return func(d time.Duration) { now = now.Add(d) }
}

func TestBreaker_StaysClosedBelowMinimumVolume(t *testing.T) {
	b := NewBreaker("user-service", testSettings())

	// 9 straight failures: volume below the 10-call minimum.
	for i := 0; i < 9; i++ {
		if !b.Allow() {
			t.Fatalf("call %d: expected closed breaker to allow", i)
		}
		b.RecordFailure()
	}
	if got := b.State(); got != BreakerClosed {
		t.Fatalf("state = %v, want closed", got)
	}
}

func TestBreaker_OpensAtFailureRateOverMinimumVolume(t *testing.T) {
	b := NewBreaker("user-service", testSettings())

	// 10 calls, 5 failures => 50% failure rate at minimum volume.
	for i := 0; i < 5; i++ {
		b.Allow()
		b.RecordSuccess()
	}
	for i := 0; i < 5; i++ {
		b.Allow()
		b.RecordFailure()
	}

	if got := b.State(); got != BreakerOpen {
		t.Fatalf("state = %v, want open", got)
	}
	if b.Allow() {
		t.Fatal("open breaker must short-circuit")
	}
}

func TestBreaker_HalfOpenAfterCooldownAllowsSingleTrial(t *testing.T) {
	b := NewBreaker("user-service", testSettings())
	advance := fakeClock(b)

	for i := 0; i < 10; i++ {
		b.Allow()
		b.RecordFailure()
	}
	if b.Allow() {
		t.Fatal("breaker should be open")
	}

	advance(30 * time.Second)

	if !b.Allow() {
		t.Fatal("first call after cooldown must be allowed as a trial")
	}
	if b.Allow() {
		t.Fatal("second trial must be denied while the first is outstanding")
	}
}

func TestBreaker_TrialSuccessCloses(t *testing.T) {
	b := NewBreaker("user-service", testSettings())
	advance := fakeClock(b)

	for i := 0; i < 10; i++ {
		b.Allow()
		b.RecordFailure()
	}
	advance(31 * time.Second)

	if !b.Allow() {
		t.Fatal("trial call should be allowed")
	}
	b.RecordSuccess()

	if got := b.State(); got != BreakerClosed {
		t.Fatalf("state = %v, want closed after trial success", got)
	}
	// Counters reset: a single failure must not reopen.
	b.Allow()
	b.RecordFailure()
	if got := b.State(); got != BreakerClosed {
		t.Fatalf("state = %v, want closed (window was reset)", got)
	}
}

func TestBreaker_TrialFailureReopensAndRestartsCooldown(t *testing.T) {
	b := NewBreaker("user-service", testSettings())
	advance := fakeClock(b)

	for i := 0; i < 10; i++ {
		b.Allow()
		b.RecordFailure()
	}
	advance(31 * time.Second)

	if !b.Allow() {
		t.Fatal("trial call should be allowed")
	}
	b.RecordFailure()

	if b.Allow() {
		t.Fatal("breaker must be open again after trial failure")
	}

	// Cooldown restarted at the trial failure: half the cooldown is not enough.
	advance(15 * time.Second)
	if b.Allow() {
		t.Fatal("cooldown must restart after a failed trial")
	}
	advance(16 * time.Second)
	if !b.Allow() {
		t.Fatal("new trial expected after restarted cooldown")
	}
}

func TestBreaker_OpensWhenFailuresPrecedeSuccesses(t *testing.T) {
	b := NewBreaker("engagement-service", testSettings())

	// The window crosses 50% on the final success outcome: the rate must be
	// evaluated on every recorded outcome, not only on failures.
	for i := 0; i < 5; i++ {
		b.Allow()
		b.RecordFailure()
	}
	for i := 0; i < 5; i++ {
		b.Allow()
		b.RecordSuccess()
	}

	if got := b.State(); got != BreakerOpen {
		t.Fatalf("after 10 calls with 5 failures state = %v, want open", got)
	}
	if b.Allow() {
		t.Fatal("open breaker must short-circuit")
	}
}

func TestBreaker_SlidingWindowEvictsOldOutcomes(t *testing.T) {
	b := NewBreaker("content-service", testSettings())

	// 4 failures followed by 10 successes: the rate tops out at 40% when the
	// window fills, and the failures then fall out of the 10-slot window.
	for i := 0; i < 4; i++ {
		b.Allow()
		b.RecordFailure()
	}
	for i := 0; i < 10; i++ {
		b.Allow()
		b.RecordSuccess()
	}
	if got := b.State(); got != BreakerClosed {
		t.Fatalf("state = %v, want closed", got)
	}

	b.mu.Lock()
	failures := b.failures
	b.mu.Unlock()
	if failures != 0 {
		t.Fatalf("failures in window = %d, want 0 after eviction", failures)
	}
}

func TestBreakerState_String(t *testing.T) {
	cases := map[BreakerState]string{
		BreakerClosed:   "closed",
		BreakerOpen:     "open",
		BreakerHalfOpen: "half-open",
		BreakerState(9): "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
