package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = RetryConfig{InitialWait: time.Millisecond, MaxWait: 4 * time.Millisecond, Multiplier: 2}

// retryWithClock wraps inner and records the waits instead of sleeping.
func retryWithClock(inner Provider, cfg RetryConfig) (*retryProvider, *[]time.Duration) {
	var waits []time.Duration
	r := WithRetry(inner, cfg).(*retryProvider)
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

func suggestionsCtx(t *testing.T) context.Context {
	return WithPurpose(t.Context(), PurposeSuggestions)
}

func TestRetry_SuggestionsRecoverFromOutage(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Content: json.RawMessage(`"Revise Optics."`)},
	)
	r, waits := retryWithClock(mock, fastRetry)

	resp, err := r.Generate(suggestionsCtx(t), Request{})
	require.NoError(t, err)
	assert.Equal(t, "Revise Optics.", resp.Text())
	assert.Equal(t, 2, mock.CallCount())
	assert.Len(t, *waits, 1)
}

func TestRetry_AttemptBudgetFollowsPurpose(t *testing.T) {
	tests := []struct {
		purpose Purpose
		calls   int
	}{
		{PurposeSuggestions, 2},
		{PurposeStudyPlan, 3},
		{PurposeUnknown, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.purpose), func(t *testing.T) {
			mock := NewMockProvider()
			for range 5 {
				mock.AddResponse(MockResponse{Err: &ErrProviderUnavailable{}})
			}
			r, _ := retryWithClock(mock, fastRetry)

			_, err := r.Generate(WithPurpose(t.Context(), tt.purpose), Request{})
			var un *ErrProviderUnavailable
			assert.True(t, errors.As(err, &un))
			assert.Equal(t, tt.calls, mock.CallCount())
		})
	}
}

func TestRetry_InvalidAnswersDrawDownBudget(t *testing.T) {
	invalid := MockResponse{Err: &ErrInvalidResponse{Err: ErrEmptyResponse}}
	mock := NewMockProvider(invalid, invalid, invalid, invalid)
	r, _ := retryWithClock(mock, fastRetry)

	_, err := r.Generate(WithPurpose(t.Context(), PurposeStudyPlan), Request{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
	// one try plus two invalid retries
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_NonRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"rejected", &ErrRejected{Status: 401, Err: errors.New("bad key")}},
		{"truncated", &ErrMaxTokensExceeded{}},
		{"canceled", context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: tt.err}, MockResponse{Content: json.RawMessage(`"x"`)})
			r, waits := retryWithClock(mock, fastRetry)

			_, err := r.Generate(WithPurpose(t.Context(), PurposeStudyPlan), Request{})
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, mock.CallCount())
			assert.Empty(t, *waits)
		})
	}
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 3 * time.Second}},
		MockResponse{Content: json.RawMessage(`"ok"`)},
	)
	r, waits := retryWithClock(mock, fastRetry)

	_, err := r.Generate(suggestionsCtx(t), Request{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{3 * time.Second}, *waits)
}

func TestRetry_GivesUpWhenWaitOutlastsDeadline(t *testing.T) {
	limited := &ErrRateLimit{RetryAfter: time.Minute, Err: errors.New("quota")}
	mock := NewMockProvider(MockResponse{Err: limited}, MockResponse{Content: json.RawMessage(`"ok"`)})
	r, waits := retryWithClock(mock, fastRetry)

	ctx, cancel := context.WithTimeout(suggestionsCtx(t), 5*time.Second)
	defer cancel()

	start := time.Now()
	_, err := r.Generate(ctx, Request{})

	assert.Same(t, limited, err)
	assert.Equal(t, 1, mock.CallCount())
	assert.Empty(t, *waits)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRetry_CancelDuringWaitKeepsProviderError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}})
	r := WithRetry(mock, RetryConfig{InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithCancel(suggestionsCtx(t))
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := r.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	var un *ErrProviderUnavailable
	assert.True(t, errors.As(err, &un), "cancellation should keep the provider error: %v", err)
}

func TestBackoffCurve(t *testing.T) {
	r := &retryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}}
	for attempt, base := range map[int]time.Duration{1: 100 * time.Millisecond, 2: 200 * time.Millisecond, 3: 300 * time.Millisecond, 6: 300 * time.Millisecond} {
		got := r.backoff(attempt, errors.New("x"))
		assert.InDelta(t, float64(base), float64(got), float64(base)*0.2+1, "attempt %d", attempt)
	}
}
