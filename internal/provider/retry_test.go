package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mayank200604/HVA/internal/errors"
)

// newTestRetrier returns a retrier whose backoff sleeps are recorded instead
// of actually waiting, so retry behavior can be asserted precisely.
func newTestRetrier(maxAttempts int, slept *[]time.Duration) *Retrier {
	r := NewRetrier(maxAttempts)
	r.sleep = func(_ context.Context, d time.Duration) {
		*slept = append(*slept, d)
	}
	return r
}

func TestRetrier_Do(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after two transient failures with two backoffs", func(t *testing.T) {
		var slept []time.Duration
		r := newTestRetrier(3, &slept)

		calls := 0
		resp, err := r.Do(ctx, func() (Response, error) {
			calls++
			if calls < 3 {
				return nil, &UpstreamError{StatusCode: 503, Body: "warming up"}
			}
			return Response{"text": "ok"}, nil
		})

		require.NoError(t, err)
		assert.Equal(t, Response{"text": "ok"}, resp)
		assert.Equal(t, 3, calls)
		// Exponential backoff: 2^0 then 2^1 seconds.
		assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, slept)
	})

	t.Run("exhausting attempts escalates to the overloaded error", func(t *testing.T) {
		var slept []time.Duration
		r := newTestRetrier(3, &slept)

		calls := 0
		_, err := r.Do(ctx, func() (Response, error) {
			calls++
			return nil, &UpstreamError{StatusCode: 503, Body: "still warming up"}
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrOverloaded)
		assert.Equal(t, 3, calls)
	})

	t.Run("every retryable status triggers a retry", func(t *testing.T) {
		for _, status := range []int{429, 500, 502, 503, 504} {
			var slept []time.Duration
			r := newTestRetrier(2, &slept)

			calls := 0
			resp, err := r.Do(ctx, func() (Response, error) {
				calls++
				if calls == 1 {
					return nil, &UpstreamError{StatusCode: status, Body: "transient"}
				}
				return Response{}, nil
			})

			require.NoError(t, err, "status %d", status)
			assert.NotNil(t, resp)
			assert.Equal(t, 2, calls, "status %d", status)
		}
	})

	t.Run("non-transient upstream errors propagate immediately", func(t *testing.T) {
		var slept []time.Duration
		r := newTestRetrier(3, &slept)

		calls := 0
		_, err := r.Do(ctx, func() (Response, error) {
			calls++
			return nil, &UpstreamError{StatusCode: 404, Body: "model not found"}
		})

		var ue *UpstreamError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, 404, ue.StatusCode)
		assert.Equal(t, 1, calls)
		assert.Empty(t, slept)
	})

	t.Run("transport errors propagate immediately", func(t *testing.T) {
		var slept []time.Duration
		r := newTestRetrier(3, &slept)

		calls := 0
		_, err := r.Do(ctx, func() (Response, error) {
			calls++
			return nil, &TransportError{Err: errors.New("connection refused")}
		})

		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, 1, calls)
		assert.Empty(t, slept)
	})
}

func TestUpstreamErrorClassification(t *testing.T) {
	assert.True(t, (&UpstreamError{StatusCode: 429}).Transient())
	assert.False(t, (&UpstreamError{StatusCode: 404}).Transient())
	assert.True(t, (&UpstreamError{StatusCode: 401}).AuthOrNotFound())
	assert.True(t, (&UpstreamError{StatusCode: 404}).AuthOrNotFound())
	assert.False(t, (&UpstreamError{StatusCode: 500}).AuthOrNotFound())
}
