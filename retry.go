package goSms

import (
	"context"
	"time"
)

// retryPolicy is the reusable bounded-retry schedule wrapped around a single
// delivery attempt: up to maxAttempts tries, exponential backoff between
// transient faults, immediate abort on a permanent fault. The backoff for
// retry n is multiplier * 2^(n-1), clamped to [minDelay, maxDelay].
type retryPolicy struct {
	maxAttempts int
	multiplier  time.Duration
	minDelay    time.Duration
	maxDelay    time.Duration
}

func newRetryPolicy(cfg DeliveryConfig) retryPolicy {
	return retryPolicy{
		maxAttempts: cfg.MaxAttempts,
		multiplier:  cfg.BackoffMultiplier,
		minDelay:    cfg.BackoffMin,
		maxDelay:    cfg.BackoffMax,
	}
}

func (p retryPolicy) delay(retry int) time.Duration {
	d := p.multiplier
	for i := 1; i < retry; i++ {
		d *= 2
		if d >= p.maxDelay {
			break
		}
	}
	if d < p.minDelay {
		d = p.minDelay
	}
	if d > p.maxDelay {
		d = p.maxDelay
	}
	return d
}

// run executes attempt until it succeeds, a permanent fault occurs, attempts
// are exhausted, or ctx is done. onRetry, when non-nil, is invoked before
// each backoff sleep with the attempt number and the fault that caused it.
// The returned fault is nil on success; otherwise it is the terminal fault
// (Transient reports whether retries were exhausted rather than aborted).
func (p retryPolicy) run(
	ctx context.Context,
	attempt func(ctx context.Context) *SendFault,
	onRetry func(attemptNo int, fault *SendFault),
) *SendFault {
	var fault *SendFault

	for attemptNo := 1; attemptNo <= p.maxAttempts; attemptNo++ {
		fault = attempt(ctx)
		if fault == nil {
			return nil
		}
		if !fault.Transient {
			return fault
		}
		if attemptNo == p.maxAttempts {
			break
		}

		if onRetry != nil {
			onRetry(attemptNo, fault)
		}

		timer := time.NewTimer(p.delay(attemptNo))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return transientFault("context", ctx.Err().Error())
		}
	}

	return fault
}
