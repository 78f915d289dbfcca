package poll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-jobboard/internal/poll"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntil_VerifiedOnThirdAttempt(t *testing.T) {
	clock := poll.NewFakeClock(time.Unix(0, 0))
	calls := 0
	result, err := poll.Until(context.Background(), clock, func(ctx context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	}, 4*time.Second, 20)

	require.NoError(t, err)
	assert.Equal(t, poll.Verified, result)
	assert.Equal(t, 3, calls)
	assert.Equal(t, time.Unix(12, 0), clock.Now())
}

func TestUntil_TimesOutAfterMaxAttempts(t *testing.T) {
	clock := poll.NewFakeClock(time.Unix(0, 0))
	calls := 0
	result, err := poll.Until(context.Background(), clock, func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	}, 4*time.Second, 20)

	require.NoError(t, err)
	assert.Equal(t, poll.TimedOut, result)
	assert.Equal(t, 20, calls)
	assert.Len(t, clock.Sleeps(), 20)
	assert.Equal(t, time.Unix(80, 0), clock.Now())
}

func TestUntil_PredicateErrorStops(t *testing.T) {
	clock := poll.NewFakeClock(time.Unix(0, 0))
	boom := errors.New("reload failed")
	calls := 0
	_, err := poll.Until(context.Background(), clock, func(ctx context.Context) (bool, error) {
		calls++
		return false, boom
	}, time.Second, 5)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestUntil_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := poll.Until(ctx, poll.NewFakeClock(time.Now()), func(ctx context.Context) (bool, error) {
		t.Fatal("predicate must not run after cancel")
		return false, nil
	}, time.Second, 3)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestUntil_InvalidSchedule(t *testing.T) {
	_, err := poll.Until(context.Background(), poll.SystemClock{}, func(ctx context.Context) (bool, error) {
		return true, nil
	}, 0, 3)
	assert.ErrorIs(t, err, poll.ErrInvalidSchedule)
}
