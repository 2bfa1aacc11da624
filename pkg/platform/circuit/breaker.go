// Package circuit implements a three-state circuit breaker (Closed, Open,
// Half-Open) used to guard repeatedly failing dependencies. One breaker guards
// one dependency; failures are counted in a sliding window, the open state
// short-circuits calls for a cooldown period, and half-open admits exactly one
// trial call.
package circuit

import (
	"sync"
	"time"
)

// State is the breaker's current disposition toward its dependency.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// Change reports state transitions so callers can log or count them.
type Change struct {
	Opened bool
	Closed bool
}

// Breaker guards one named dependency. All methods are safe for concurrent use;
// each breaker carries its own lock so breakers for different dependencies
// never serialize on each other.
type Breaker struct {
	name string

	mu               sync.Mutex
	state            State
	failures         []time.Time // failure timestamps within the sliding window
	successCount     int
	failureThreshold int
	successThreshold int
	window           time.Duration
	cooldown         time.Duration
	openedAt         time.Time
	trialInFlight    bool

	now func() time.Time
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithFailureThreshold sets how many failures within the window open the circuit.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) { b.failureThreshold = n }
}

// WithSuccessThreshold sets how many successes close an open circuit.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) { b.successThreshold = n }
}

// WithWindow sets the sliding window over which failures are counted.
func WithWindow(d time.Duration) Option {
	return func(b *Breaker) { b.window = d }
}

// WithCooldown sets how long the circuit stays open before admitting a trial call.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) { b.cooldown = d }
}

// WithClock overrides the time source; tests use it to step through cooldowns.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) { b.now = now }
}

// New creates a breaker for the named dependency.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		state:            StateClosed,
		failureThreshold: 5,
		successThreshold: 1,
		window:           time.Minute,
		cooldown:         30 * time.Second,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the dependency name this breaker guards.
func (b *Breaker) Name() string { return b.name }

// State returns the current state, accounting for an elapsed cooldown.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.effectiveState()
}

// IsOpen reports whether calls should currently be short-circuited.
func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.effectiveState() == StateOpen
}

// Allow reports whether a call may proceed. In the closed state every call
// passes. In the open state calls are rejected until the cooldown elapses,
// after which exactly one trial call is admitted (half-open); concurrent
// callers during the trial are rejected.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.effectiveState() {
	case StateClosed:
		return true
	case StateOpen:
		return false
	case StateHalfOpen:
		if b.trialInFlight {
			return false
		}
		b.state = StateHalfOpen
		b.trialInFlight = true
		return true
	}
	return false
}

// RecordFailure notes a failed call. It returns whether callers should use
// their fallback path, and any state transition that occurred.
func (b *Breaker) RecordFailure() (useFallback bool, change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.successCount = 0
	b.trialInFlight = false

	if b.effectiveState() != StateClosed {
		// Failed trial or failure while open: back to open, restart cooldown.
		b.state = StateOpen
		b.openedAt = now
		return true, Change{}
	}

	b.failures = append(b.failures, now)
	b.pruneLocked(now)
	if len(b.failures) >= b.failureThreshold {
		b.state = StateOpen
		b.openedAt = now
		b.failures = nil
		return true, Change{Opened: true}
	}
	return false, Change{}
}

// RecordSuccess notes a successful call. It returns whether callers should use
// the primary path, and any state transition that occurred.
func (b *Breaker) RecordSuccess() (usePrimary bool, change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.trialInFlight = false

	if b.state == StateClosed {
		b.failures = nil
		return true, Change{}
	}

	b.successCount++
	if b.successCount >= b.successThreshold {
		b.state = StateClosed
		b.failures = nil
		b.successCount = 0
		return true, Change{Closed: true}
	}
	return false, Change{}
}

// Reset manually closes the circuit and clears all counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = nil
	b.successCount = 0
	b.trialInFlight = false
}

// effectiveState folds cooldown expiry into the stored state. Callers must
// hold b.mu.
func (b *Breaker) effectiveState() State {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cooldown {
		return StateHalfOpen
	}
	if b.state == StateHalfOpen {
		return StateHalfOpen
	}
	return b.state
}

// pruneLocked drops failures that fell out of the sliding window.
func (b *Breaker) pruneLocked(now time.Time) {
	cutoff := now.Add(-b.window)
	i := 0
	for ; i < len(b.failures); i++ {
		if b.failures[i].After(cutoff) {
			break
		}
	}
	b.failures = b.failures[i:]
}
