package openai

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// retryPolicy retries transiently-failing calls with exponential backoff
// and jitter. Non-retryable failures abort immediately without consuming
// the remaining attempts.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		maxAttempts: 3,
		baseDelay:   time.Second,
		maxDelay:    10 * time.Second,
	}
}

// delay before attempt k (k >= 1, counted after the first failure):
// min(maxDelay, base * 2^(k-1) * (1 + jitter)), jitter in [0, 0.3).
func (p retryPolicy) delay(k int) time.Duration {
	d := p.baseDelay << (k - 1)
	d = time.Duration(float64(d) * (1 + rand.Float64()*0.3))
	if d > p.maxDelay {
		d = p.maxDelay
	}
	return d
}

// do runs op up to maxAttempts times, sleeping between attempts, and
// returns the last error once the budget is exhausted or a non-retryable
// failure occurs.
func (p retryPolicy) do(ctx context.Context, op func() error) error {
	var last error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		last = op()
		if last == nil {
			return nil
		}
		if !isTransient(last) || attempt == p.maxAttempts {
			return last
		}
		timer := time.NewTimer(p.delay(attempt))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	return last
}

// isTransient classifies provider rate limiting and server-side errors as
// retryable; everything else aborts the call.
func isTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests ||
			reqErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	return false
}
