package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy is a named bounded-retry policy for operations that depend on an
// asynchronous side effect of another system. The caller configures attempts
// and delay up front and supplies a terminal fallback instead of embedding a
// retry loop inline.
type Policy struct {
	Name        string
	MaxAttempts int
	Delay       time.Duration
	Exponential bool
}

// Do runs op up to MaxAttempts times, sleeping between attempts. When every
// attempt fails, fallback (if any) receives the last error before it is
// returned.
func (p Policy) Do(ctx context.Context, op func(context.Context) error, fallback func(error)) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var b backoff.BackOff
	if p.Exponential {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = p.Delay
		b = eb
	} else {
		b = backoff.NewConstantBackOff(p.Delay)
	}

	var lastErr error
loop:
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		if lastErr = op(ctx); lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(b.NextBackOff()):
		case <-ctx.Done():
			lastErr = ctx.Err()
			break loop
		}
	}

	if fallback != nil {
		fallback(lastErr)
	}
	return lastErr
}
