package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("vendor said no")
	tests := []struct {
		status int
		want   string
	}{
		{0, "unavailable"},
		{http.StatusTooManyRequests, "rate"},
		{http.StatusUnauthorized, "rejected"},
		{http.StatusNotFound, "rejected"},
		{http.StatusRequestTimeout, "unavailable"},
		{http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tt := range tests {
		err := classifyStatus(tt.status, 2*time.Second, cause)
		assert.ErrorIs(t, err, cause)

		var (
			rl  *ErrRateLimit
			rej *ErrRejected
			un  *ErrProviderUnavailable
		)
		switch tt.want {
		case "rate":
			if assert.True(t, errors.As(err, &rl), "status %d", tt.status) {
				assert.Equal(t, 2*time.Second, rl.RetryAfter)
			}
		case "rejected":
			if assert.True(t, errors.As(err, &rej), "status %d", tt.status) {
				assert.Equal(t, tt.status, rej.Status)
			}
		default:
			assert.True(t, errors.As(err, &un), "status %d", tt.status)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"12", 12 * time.Second},
		{"-3", 0},
		{"Fri, 01 Mar 2024 10:00:30 GMT", 30 * time.Second},
		{"Fri, 01 Mar 2024 09:59:00 GMT", 0},
		{"later", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseRetryAfter(tt.in, now), "Retry-After %q", tt.in)
	}
}

func TestTransportError(t *testing.T) {
	assert.ErrorIs(t, transportError(context.DeadlineExceeded), context.DeadlineExceeded)
	var un *ErrProviderUnavailable
	assert.False(t, errors.As(transportError(context.Canceled), &un))

	dial := errors.New("dial tcp: connection refused")
	err := transportError(dial)
	assert.True(t, errors.As(err, &un))
	assert.ErrorIs(t, err, dial)
}
