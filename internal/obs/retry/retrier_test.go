package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("broker unavailable")
		}
		return nil
	}, Policy{Name: "test_transient", Attempts: 5, Backoff: Constant(time.Millisecond)})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnNonRetryable(t *testing.T) {
	permanent := errors.New("message too large")
	calls := 0
	var exhausted error

	err := Do(context.Background(), func() error {
		calls++
		return permanent
	}, Policy{
		Name:      "test_permanent",
		Attempts:  4,
		Backoff:   Constant(time.Millisecond),
		Retryable: func(err error) bool { return !errors.Is(err, permanent) },
		OnExhaust: func(err error) { exhausted = err },
	})

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, exhausted, permanent)
}

func TestDo_ReturnsLastErrorWhenAttemptsRunOut(t *testing.T) {
	calls := 0
	var seen []int

	err := Do(context.Background(), func() error {
		calls++
		return errors.New("still down")
	}, Policy{
		Name:      "test_exhaust",
		Attempts:  3,
		OnAttempt: func(i int, _ error) { seen = append(seen, i) },
	})

	require.EqualError(t, err, "still down")
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestDo_HonoursContextDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Do(ctx, func() error {
		calls++
		cancel()
		return errors.New("timeout")
	}, Policy{Name: "test_ctx", Attempts: 3, Backoff: Constant(time.Minute)})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestExpoJitter_CapsAtMax(t *testing.T) {
	b := ExpoJitter{Base: 100 * time.Millisecond, Max: time.Second}

	assert.Equal(t, 100*time.Millisecond, b.Next(0))
	assert.Equal(t, 400*time.Millisecond, b.Next(2))
	assert.Equal(t, time.Second, b.Next(10))
	assert.Equal(t, 100*time.Millisecond, b.Next(-1))
}
