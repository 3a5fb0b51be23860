package reindex

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPolicy(t *testing.T, maxAttempts int, baseDelay time.Duration) *retryPolicy {
	t.Helper()
	policy, err := newRetryPolicy(maxAttempts, baseDelay, nil)
	require.NoError(t, err)
	return policy
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := newTestPolicy(t, 3, time.Millisecond).do(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryEventuallySucceeds(t *testing.T) {
	calls := 0
	err := newTestPolicy(t, 5, time.Millisecond).do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := errors.New("persistent")
	err := newTestPolicy(t, 3, time.Millisecond).do(context.Background(), func() error {
		calls++
		return wantErr
	})
	require.Error(t, err)
	assert.Equal(t, wantErr, err)
	assert.Equal(t, 3, calls)
}

func TestRetryInvalidMaxAttempts(t *testing.T) {
	_, err := newRetryPolicy(0, time.Millisecond, nil)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := newTestPolicy(t, 3, time.Minute).do(ctx, func() error {
		calls++
		return errors.New("should not matter")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestRetryCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	policy := newTestPolicy(t, 5, time.Hour)
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- policy.do(ctx, func() error {
			calls++
			return errors.New("always fails")
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(5 * time.Second):
		t.Fatal("retry did not abort on cancellation")
	}
}
