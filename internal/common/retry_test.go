package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/kahvi/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		failures  int
		failWith  error
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{name: "first try succeeds", failures: 0, attempts: 3, wantCalls: 1},
		{name: "succeeds after transient failures", failures: 2, failWith: Transient(errBoom), attempts: 3, wantCalls: 3},
		{name: "exhausts attempts", failures: 5, failWith: errBoom, attempts: 3, wantCalls: 3, wantErr: ErrMaxRetries},
		{name: "permanent error stops immediately", failures: 5, failWith: Permanent(ErrNotFound), attempts: 3, wantCalls: 1, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.failWith
				}
				return nil
			}, fastRetry(tt.attempts))

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWithRetry_KeepsLastErrorInChain(t *testing.T) {
	err := WithRetry(context.Background(), func() error {
		return Transient(ErrUnavailable)
	}, fastRetry(2))

	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := fastRetry(3)
	opts.InitialDelay = time.Hour
	opts.MaxDelay = time.Hour

	err := WithRetry(ctx, func() error { return errors.New("down") }, opts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(Transient(errors.New("502"))))
	assert.True(t, IsRetryable(ErrUnavailable))
	assert.False(t, IsRetryable(Permanent(errors.New("400"))))
	assert.False(t, IsRetryable(ErrNotFound))
}

func TestUserMessage(t *testing.T) {
	wrapped := NewUserError("Could not load coffees", ErrUnavailable)

	assert.Equal(t, "Could not load coffees", UserMessage(wrapped))
	assert.Equal(t, "not found", UserMessage(ErrNotFound))
	assert.Empty(t, UserMessage(nil))
	assert.ErrorIs(t, wrapped, ErrUnavailable)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())

	_, err = ParseLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
