package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/aleph-cli/aleph/internal/config"
)

// Retrying retries transient failures of the wrapped gateway with
// exponential backoff. Rate limits, network and server errors are retried;
// every other failure is returned after the first attempt.
type Retrying struct {
	next        Gateway
	maxAttempts int
	newBackOff  func() backoff.BackOff
}

// NewRetrying wraps next with the retry policy from cfg.
func NewRetrying(next Gateway, cfg config.RetryConfig) *Retrying {
	return &Retrying{
		next:        next,
		maxAttempts: cfg.MaxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = cfg.InitialDelay.Duration()
			b.Multiplier = cfg.Multiplier
			b.RandomizationFactor = 0
			if cfg.MaxDelay > 0 {
				b.MaxInterval = cfg.MaxDelay.Duration()
			}
			b.MaxElapsedTime = 0
			return b
		},
	}
}

// Complete calls the wrapped gateway until it succeeds, fails permanently,
// runs out of attempts or ctx is done.
func (r *Retrying) Complete(ctx context.Context, req Request) (string, error) {
	attempt := 0
	op := func() (string, error) {
		attempt++
		reply, err := r.next.Complete(ctx, req)
		if err == nil {
			return reply, nil
		}
		err = Classify(err)
		var gerr *Error
		if errors.As(err, &gerr) && gerr.Transient() {
			return "", err
		}
		return "", backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		slog.Warn("gateway call failed, retrying",
			"model", req.Model,
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"wait", wait,
			"error", err,
		)
	}

	retries := max(r.maxAttempts-1, 0)
	b := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(retries)), ctx)

	reply, err := backoff.RetryNotifyWithData(op, b, notify)
	if err != nil && attempt > 1 {
		slog.Error("gateway call failed", "model", req.Model, "attempts", attempt, "error", err)
	}
	return reply, err
}
