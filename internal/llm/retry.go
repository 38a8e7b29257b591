package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/quizlens/internal/logger"
)

type retryProvider struct {
	inner  Provider
	config RetryConfig
	sleep  func(ctx context.Context, d time.Duration) error
}

// WithRetry retries transient failures with jittered exponential backoff.
// The attempt budget comes from the purpose profile; cfg only shapes the
// wait between attempts. A wait that would outlast the context deadline is
// not taken and the last failure is returned instead.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &retryProvider{inner: p, config: cfg, sleep: sleepCtx}
}

func (r *retryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	purpose := PurposeFrom(ctx)
	prof := ProfileFor(purpose)
	log := logger.FromContext(ctx).WithPrefix("llm")
	invalidLeft := prof.InvalidRetries

	attempts := max(prof.MaxAttempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err, &invalidLeft) || attempt == attempts {
			break
		}

		wait := r.backoff(attempt, err)
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < wait {
			log.WithFields(map[string]any{"purpose": purpose, "wait": wait}).
				Warn("not retrying, wait exceeds deadline: %v", err)
			break
		}
		log.WithFields(map[string]any{"purpose": purpose, "attempt": attempt, "wait": wait}).
			Warn("retrying: %v", err)
		if err := r.sleep(ctx, wait); err != nil {
			return nil, fmt.Errorf("%w; %w", err, lastErr)
		}
	}
	return nil, lastErr
}

func (r *retryProvider) ModelID() string { return r.inner.ModelID() }

// retryable reports whether err is worth another attempt. Invalid answers
// draw down invalidLeft.
func retryable(err error, invalidLeft *int) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var (
		maxTok   *ErrMaxTokensExceeded
		rejected *ErrRejected
		invalid  *ErrInvalidResponse
	)
	switch {
	case errors.As(err, &maxTok), errors.As(err, &rejected), errors.Is(err, ErrDisabled):
		return false
	case errors.As(err, &invalid):
		if *invalidLeft <= 0 {
			return false
		}
		*invalidLeft--
		return true
	}
	return true
}

// backoff returns the wait before attempt+1. A vendor Retry-After wins
// over the curve.
func (r *retryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt-1))
	wait = math.Min(wait, float64(r.config.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
