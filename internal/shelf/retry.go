package shelf

import (
	"context"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how persistence calls are retried.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy is used when no policy is configured.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:     3,
	InitialInterval: 100 * time.Millisecond,
	MaxInterval:     2 * time.Second,
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		exp.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		exp.MaxInterval = p.MaxInterval
	}
	exp.Multiplier = 2
	exp.MaxElapsedTime = 0
	exp.Reset()

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(attempts-1)), ctx)
}

// Do runs op until it succeeds or the policy gives up, calling notify before
// each retry. The last error is returned.
func (p RetryPolicy) Do(ctx context.Context, op func() error, notify func(err error, wait time.Duration)) error {
	return backoff.RetryNotify(op, p.backOff(ctx), notify)
}
