// Package resilience guards calls to flaky telemetry sources.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

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
	default:
		return "unknown"
	}
}

type CircuitBreaker struct {
	name          string
	maxFailures   int
	timeout       time.Duration
	halfOpenMax   int
	state         State
	failures      int
	successes     int
	lastFailTime  time.Time
	mu            sync.Mutex
	onStateChange func(name string, from, to State)
	isFailure     func(error) bool
	now           func() time.Time
}

type CircuitBreakerConfig struct {
	Name        string
	MaxFailures int
	Timeout     time.Duration
	HalfOpenMax int
	// OnStateChange runs synchronously after each transition, outside the
	// breaker's lock.
	OnStateChange func(name string, from, to State)
	// IsFailure decides whether an error counts against the breaker.
	// Defaults to every non-nil error.
	IsFailure func(error) bool
	Clock     func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HalfOpenMax <= 0 {
		cfg.HalfOpenMax = 3
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool { return err != nil }
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &CircuitBreaker{
		name:          cfg.Name,
		maxFailures:   cfg.MaxFailures,
		timeout:       cfg.Timeout,
		halfOpenMax:   cfg.HalfOpenMax,
		state:         StateClosed,
		onStateChange: cfg.OnStateChange,
		isFailure:     cfg.IsFailure,
		now:           cfg.Clock,
	}
}

func (cb *CircuitBreaker) Name() string {
	return cb.name
}

func (cb *CircuitBreaker) Execute(fn func() error) error {
	return cb.ExecuteContext(context.Background(), func(context.Context) error { return fn() })
}

// ExecuteContext runs fn unless the breaker is open. Context cancellation
// is returned to the caller but never recorded as a failure.
func (cb *CircuitBreaker) ExecuteContext(ctx context.Context, fn func(context.Context) error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}

	err := fn(ctx)
	switch {
	case err == nil:
		cb.record(true)
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
	case cb.isFailure(err):
		cb.record(false)
	default:
		cb.record(true)
	}
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	var changed *transition
	allowed := false

	switch cb.state {
	case StateClosed, StateHalfOpen:
		allowed = true
	case StateOpen:
		if cb.now().Sub(cb.lastFailTime) > cb.timeout {
			changed = cb.transitionTo(StateHalfOpen)
			allowed = true
		}
	}
	cb.mu.Unlock()

	cb.notify(changed)
	return allowed
}

func (cb *CircuitBreaker) record(success bool) {
	cb.mu.Lock()
	var changed *transition

	if success {
		switch cb.state {
		case StateClosed:
			cb.failures = 0
		case StateHalfOpen:
			cb.successes++
			if cb.successes >= cb.halfOpenMax {
				changed = cb.transitionTo(StateClosed)
			}
		}
	} else {
		cb.lastFailTime = cb.now()
		switch cb.state {
		case StateClosed:
			cb.failures++
			if cb.failures >= cb.maxFailures {
				changed = cb.transitionTo(StateOpen)
			}
		case StateHalfOpen:
			changed = cb.transitionTo(StateOpen)
		}
	}
	cb.mu.Unlock()

	cb.notify(changed)
}

type transition struct {
	from, to State
}

// transitionTo must be called with cb.mu held.
func (cb *CircuitBreaker) transitionTo(newState State) *transition {
	oldState := cb.state
	cb.state = newState
	cb.failures = 0
	cb.successes = 0
	return &transition{from: oldState, to: newState}
}

func (cb *CircuitBreaker) notify(t *transition) {
	if t != nil && cb.onStateChange != nil {
		cb.onStateChange(cb.name, t.from, t.to)
	}
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	var changed *transition
	if cb.state != StateClosed {
		changed = cb.transitionTo(StateClosed)
	}
	cb.failures = 0
	cb.successes = 0
	cb.mu.Unlock()

	cb.notify(changed)
}

func (cb *CircuitBreaker) Stats() (state State, failures int, lastFail time.Time) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state, cb.failures, cb.lastFailTime
}
