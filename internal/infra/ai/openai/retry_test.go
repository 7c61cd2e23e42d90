package openai

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowlab/skinsight/internal/domain/vision"
)

func testPolicy() retryPolicy {
	return retryPolicy{maxAttempts: 3, baseDelay: time.Millisecond, maxDelay: 5 * time.Millisecond}
}

func apiErr(status int) error {
	return &openai.APIError{HTTPStatusCode: status, Message: "provider error"}
}

func TestDo_StopsAfterMaxAttemptsOnTransient(t *testing.T) {
	attempts := 0
	err := testPolicy().do(context.Background(), func() error {
		attempts++
		return apiErr(http.StatusServiceUnavailable)
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_NoRetryOnNonRetryable(t *testing.T) {
	attempts := 0
	err := testPolicy().do(context.Background(), func() error {
		attempts++
		return &vision.MalformedOutputError{Err: errors.New("bad json")}
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_SucceedsMidway(t *testing.T) {
	attempts := 0
	err := testPolicy().do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return apiErr(http.StatusTooManyRequests)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	p := retryPolicy{maxAttempts: 3, baseDelay: time.Second, maxDelay: 10 * time.Second}
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := p.do(ctx, func() error {
		attempts++
		return apiErr(http.StatusInternalServerError)
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestDelay_BoundedWithJitter(t *testing.T) {
	p := retryPolicy{maxAttempts: 3, baseDelay: time.Second, maxDelay: 10 * time.Second}

	for k := 1; k <= 3; k++ {
		base := p.baseDelay << (k - 1)
		for i := 0; i < 50; i++ {
			d := p.delay(k)
			assert.GreaterOrEqual(t, d, base, "attempt %d", k)
			assert.LessOrEqual(t, d, p.maxDelay, "attempt %d", k)
			assert.Less(t, d, time.Duration(float64(base)*1.3)+time.Nanosecond, "attempt %d", k)
		}
	}

	// deep attempts are capped at maxDelay
	p2 := retryPolicy{maxAttempts: 10, baseDelay: time.Second, maxDelay: 10 * time.Second}
	assert.Equal(t, 10*time.Second, p2.delay(8))
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", apiErr(http.StatusTooManyRequests), true},
		{"server error", apiErr(http.StatusInternalServerError), true},
		{"bad gateway", apiErr(http.StatusBadGateway), true},
		{"bad request", apiErr(http.StatusBadRequest), false},
		{"unauthorized", apiErr(http.StatusUnauthorized), false},
		{"request error 503", &openai.RequestError{HTTPStatusCode: http.StatusServiceUnavailable}, true},
		{"request error 404", &openai.RequestError{HTTPStatusCode: http.StatusNotFound}, false},
		{"malformed output", &vision.MalformedOutputError{Err: errors.New("x")}, false},
		{"contract violation", &vision.ContractError{Violations: []string{"x"}}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isTransient(tc.err))
		})
	}
}

func TestAnalyze_RejectsWrongImageCount(t *testing.T) {
	c := NewClient("test-key", "", 0)

	for _, urls := range [][]string{nil, {"a"}, {"a", "b"}, {"a", "b", "c", "d"}} {
		_, err := c.Analyze(context.Background(), urls)
		assert.ErrorIs(t, err, vision.ErrInvalidImageCount)
	}
}
