package services

import (
	"context"
	"errors"
	"net"
	"os"
	"time"

	logger "github.com/Bparsons0904/goLogger"
)

// RetryPolicy is the single bounded-retry-with-fixed-delay policy shared by
// every call site that talks to an external service. Retryable decides which
// error class earns another attempt; everything else surfaces immediately.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Retryable   func(error) bool

	// Sleep is overridable so tests can observe delays without waiting.
	Sleep func(context.Context, time.Duration) error
}

// NewUploadRetryPolicy returns the policy used for storage uploads: three
// attempts, two seconds apart, retrying only the timeout error class.
func NewUploadRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Delay:       2 * time.Second,
		Retryable:   IsTimeout,
	}
}

// Do runs fn until it succeeds, a non-retryable error occurs, the attempt
// budget is exhausted, or the context is done.
func (p RetryPolicy) Do(ctx context.Context, operation string, fn func() error) error {
	log := logger.New("retry").With("operation", operation)

	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}

		if p.Retryable == nil || !p.Retryable(err) || attempt == p.MaxAttempts {
			return err
		}

		log.Warn("retrying after transient failure",
			"attempt", attempt,
			"maxAttempts", p.MaxAttempts,
			"error", err,
		)

		if sleepErr := sleep(ctx, p.Delay); sleepErr != nil {
			return err
		}
	}

	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsTimeout reports whether err belongs to the transient timeout class.
// Authorization and validation failures never match.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return os.IsTimeout(err)
}
