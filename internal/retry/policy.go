// Package retry holds the single retry policy shared by every outbound call
// that needs bounded exponential backoff.
package retry

import (
	"context"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/DataScyther/Neeva-AI-sub000/internal/errors"
)

// Policy describes how many times an operation runs and how long to wait
// between runs. The delay before attempt n+1 is BaseDelay * 2^(n-1), capped at
// MaxDelay. The zero value runs the operation once.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// Retryable decides whether a failed attempt is worth repeating.
	// Defaults to errors.IsRecoverable.
	Retryable func(error) bool

	// OnRetry is called after a failed attempt and before the wait.
	OnRetry func(err error, attempt int, wait time.Duration)

	// NewTimer overrides the wait timer. Tests use it to observe the schedule
	// without sleeping.
	NewTimer func() backoff.Timer
}

// Default mirrors the gateway defaults: three attempts, 1s then 2s.
func Default() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second}
}

// Do runs op until it succeeds, returns a non-retryable error, exhausts
// MaxAttempts, or ctx is done. The returned error is the last error from op,
// or ctx.Err() when the context ended the loop.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = errors.IsRecoverable
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := op(ctx, attempt)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		if p.OnRetry != nil {
			p.OnRetry(err, attempt, wait)
		}
	}

	var timer backoff.Timer
	if p.NewTimer != nil {
		timer = p.NewTimer()
	}
	return backoff.RetryNotifyWithTimer(operation, p.backOff(ctx), notify, timer)
}

// Schedule returns the waits between consecutive attempts.
func (p Policy) Schedule() []time.Duration {
	b := p.exponential()
	b.Reset()
	var out []time.Duration
	for i := 1; i < p.maxAttempts(); i++ {
		out = append(out, b.NextBackOff())
	}
	return out
}

func (p Policy) backOff(ctx context.Context) backoff.BackOffContext {
	retries := uint64(p.maxAttempts() - 1)
	return backoff.WithContext(backoff.WithMaxRetries(p.exponential(), retries), ctx)
}

func (p Policy) exponential() *backoff.ExponentialBackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.BaseDelay
	if exp.InitialInterval <= 0 {
		exp.InitialInterval = time.Second
	}
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	if p.MaxDelay > 0 {
		exp.MaxInterval = p.MaxDelay
	}
	return exp
}

func (p Policy) maxAttempts() int {
	if p.MaxAttempts <= 0 {
		return 1
	}
	return p.MaxAttempts
}
