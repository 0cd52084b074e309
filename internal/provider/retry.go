package provider

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	apperrors "github.com/mayank200604/HVA/internal/errors"
)

// Retrier wraps a provider call with bounded exponential-backoff retry on
// transient upstream failures. Any other error class propagates immediately.
type Retrier struct {
	MaxAttempts int
	// sleep is injectable so tests can count backoffs instead of waiting.
	sleep func(ctx context.Context, d time.Duration)
}

// NewRetrier creates a retrier with the given attempt ceiling.
func NewRetrier(maxAttempts int) *Retrier {
	return &Retrier{
		MaxAttempts: maxAttempts,
		sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// Do invokes call up to MaxAttempts times. After an attempt fails with a
// transient UpstreamError it sleeps 2^attempt seconds and tries again;
// non-transient errors propagate untouched. Exhausting every attempt yields
// ErrOverloaded, distinct from the provider's own error.
func (r *Retrier) Do(ctx context.Context, call func() (Response, error)) (Response, error) {
	for attempt := 0; attempt < r.MaxAttempts; attempt++ {
		resp, err := call()
		if err == nil {
			return resp, nil
		}

		var ue *UpstreamError
		if errors.As(err, &ue) && ue.Transient() {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * time.Second
			slog.Warn("Transient upstream failure, backing off",
				"status", ue.StatusCode, "attempt", attempt+1, "backoff", backoff)
			r.sleep(ctx, backoff)
			continue
		}
		return nil, err
	}
	return nil, apperrors.ErrOverloaded
}
