package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func newTestPolicy(delays *[]time.Duration) RetryPolicy {
	policy := NewUploadRetryPolicy()
	policy.Sleep = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return policy
}

func TestRetryPolicy_Do_SucceedsAfterTimeouts(t *testing.T) {
	var delays []time.Duration
	policy := newTestPolicy(&delays)

	attempts := 0
	err := policy.Do(context.Background(), "upload", func() error {
		attempts++
		if attempts < 3 {
			return timeoutError{}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	require.Len(t, delays, 2)
	assert.Equal(t, 2*time.Second, delays[0])
	assert.Equal(t, 2*time.Second, delays[1])
}

func TestRetryPolicy_Do_ExhaustsAttempts(t *testing.T) {
	var delays []time.Duration
	policy := newTestPolicy(&delays)

	attempts := 0
	err := policy.Do(context.Background(), "upload", func() error {
		attempts++
		return timeoutError{}
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Len(t, delays, 2)
}

func TestRetryPolicy_Do_NonRetryableFailsImmediately(t *testing.T) {
	var delays []time.Duration
	policy := newTestPolicy(&delays)

	attempts := 0
	authErr := errors.New("invalid credentials")
	err := policy.Do(context.Background(), "upload", func() error {
		attempts++
		return authErr
	})

	require.ErrorIs(t, err, authErr)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, delays)
}

func TestRetryPolicy_Do_FirstAttemptSuccess(t *testing.T) {
	var delays []time.Duration
	policy := newTestPolicy(&delays)

	attempts := 0
	err := policy.Do(context.Background(), "upload", func() error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, delays)
}

func TestRetryPolicy_Do_CancelledContextStopsRetrying(t *testing.T) {
	policy := NewUploadRetryPolicy()
	policy.Sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := policy.Do(ctx, "upload", func() error {
		attempts++
		return timeoutError{}
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestIsTimeout(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped deadline", fmt.Errorf("upload: %w", context.DeadlineExceeded), true},
		{"net timeout", timeoutError{}, true},
		{"wrapped net timeout", fmt.Errorf("drive: %w", timeoutError{}), true},
		{"os timeout", os.ErrDeadlineExceeded, true},
		{"dns error", &net.DNSError{Err: "no such host"}, false},
		{"auth failure", errors.New("401 unauthorized"), false},
		{"cancelled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTimeout(tt.err))
		})
	}
}
