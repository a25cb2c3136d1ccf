package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/user-auth/internal/common/clock"
	commonerrors "github.com/AlibekovAA/user-auth/internal/common/errors"
)

var errBoom = errors.New("boom")

func newTestBreaker(c clock.Clock, isFailure func(error) bool) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		Threshold:  2,
		Timeout:    time.Second,
		ResetAfter: 10 * time.Second,
		Name:       "test",
		IsFailure:  isFailure,
		Clock:      c,
	})
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	c := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	cb := newTestBreaker(c, nil)
	failing := func(context.Context) error { return errBoom }

	assert.ErrorIs(t, cb.Call(context.Background(), failing), errBoom)
	assert.ErrorIs(t, cb.Call(context.Background(), failing), errBoom)

	called := false
	err := cb.Call(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, commonerrors.ErrCircuitOpen)
	assert.False(t, called)
	assert.True(t, cb.IsOpen())
}

func TestCircuitBreaker_ClosesAfterReset(t *testing.T) {
	c := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	cb := newTestBreaker(c, nil)
	failing := func(context.Context) error { return errBoom }

	_ = cb.Call(context.Background(), failing)
	_ = cb.Call(context.Background(), failing)
	require.True(t, cb.IsOpen())

	c.Advance(11 * time.Second)

	assert.False(t, cb.IsOpen())
	assert.NoError(t, cb.Call(context.Background(), func(context.Context) error { return nil }))
}

func TestCircuitBreaker_IgnoredErrorsDoNotOpen(t *testing.T) {
	errNotFound := errors.New("not found")
	c := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	cb := newTestBreaker(c, func(err error) bool { return !errors.Is(err, errNotFound) })

	for i := 0; i < 5; i++ {
		err := cb.Call(context.Background(), func(context.Context) error { return errNotFound })
		assert.ErrorIs(t, err, errNotFound)
	}

	assert.False(t, cb.IsOpen())
}

func TestCircuitBreaker_AppliesTimeout(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 5, Timeout: 10 * time.Millisecond})

	err := cb.Call(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
