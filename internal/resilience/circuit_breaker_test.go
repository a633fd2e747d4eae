package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type transitions struct {
	mu  sync.Mutex
	got []string
}

func (r *transitions) record(_ string, from, to State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, from.String()+"->"+to.String())
}

func newBreaker(clock *fakeClock, rec *transitions) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		Name:          "test",
		MaxFailures:   3,
		Timeout:       10 * time.Second,
		HalfOpenMax:   2,
		OnStateChange: rec.record,
		Clock:         clock.Now,
	})
}

func fail() error { return errBoom }
func ok() error   { return nil }

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	rec := &transitions{}
	cb := newBreaker(clock, rec)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errBoom)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
	assert.Equal(t, []string{"closed->open"}, rec.got)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	cb := newBreaker(clock, &transitions{})

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	require.NoError(t, cb.Execute(ok))
	_ = cb.Execute(fail)
	_ = cb.Execute(fail)

	assert.Equal(t, StateClosed, cb.State())
	_, failures, _ := cb.Stats()
	assert.Equal(t, 2, failures)
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	rec := &transitions{}
	cb := newBreaker(clock, rec)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	clock.Advance(11 * time.Second)

	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, StateHalfOpen, cb.State())
	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, StateClosed, cb.State())

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, rec.got)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	rec := &transitions{}
	cb := newBreaker(clock, rec)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	clock.Advance(5 * time.Second)
	assert.ErrorIs(t, cb.Execute(ok), ErrCircuitOpen)

	clock.Advance(6 * time.Second)
	assert.ErrorIs(t, cb.Execute(fail), errBoom)
	assert.Equal(t, StateOpen, cb.State())
	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->open"}, rec.got)
}

func TestCircuitBreaker_IgnoredErrors(t *testing.T) {
	errNotFound := errors.New("not found")
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures: 1,
		IsFailure:   func(err error) bool { return !errors.Is(err, errNotFound) },
	})

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return errNotFound }), errNotFound)
	}
	assert.Equal(t, StateClosed, cb.State())

	_ = cb.Execute(fail)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_CancellationNotCounted(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cb.ExecuteContext(ctx, func(ctx context.Context) error { return ctx.Err() })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_Reset(t *testing.T) {
	rec := &transitions{}
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, OnStateChange: rec.record})

	_ = cb.Execute(fail)
	require.Equal(t, StateOpen, cb.State())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, []string{"closed->open", "open->closed"}, rec.got)

	cb.Reset()
	assert.Len(t, rec.got, 2)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
