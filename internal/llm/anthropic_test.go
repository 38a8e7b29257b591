package llm

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type anthropicStub struct {
	hits atomic.Int32
	body map[string]any
}

func newAnthropicStub(t *testing.T, status int, header http.Header, reply any) (*AnthropicProvider, *anthropicStub) {
	t.Helper()
	stub := &anthropicStub{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.hits.Add(1)
		_ = json.NewDecoder(r.Body).Decode(&stub.body)
		for k, v := range header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku", BaseURL: srv.URL})
	require.NoError(t, err)
	return p, stub
}

func anthropicMessage(stop string, texts ...string) map[string]any {
	content := []map[string]any{}
	for _, s := range texts {
		content = append(content, map[string]any{"type": "text", "text": s})
	}
	return map[string]any{
		"id": "msg_1", "type": "message", "role": "assistant",
		"model": "claude-haiku-4-5-20251001", "content": content, "stop_reason": stop,
		"usage": map[string]any{"input_tokens": 310, "output_tokens": 42},
	}
}

func anthropicErrorBody(kind, msg string) map[string]any {
	return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": msg}}
}

func TestAnthropicProvider_Suggestions(t *testing.T) {
	p, stub := newAnthropicStub(t, http.StatusOK, nil,
		anthropicMessage("end_turn", "1. Redo the Optics quiz untimed.\n", "2. Review lens formula."))
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())

	req := ProfileFor(PurposeSuggestions).Shape(Request{
		System:   "You are a test assessment analyzer and mentor for NEET students.",
		Messages: []Message{{Role: RoleUser, Content: "Weak Topics:\nOptics"}},
	})
	resp, err := p.Generate(t.Context(), req)
	require.NoError(t, err)

	assert.Equal(t, "1. Redo the Optics quiz untimed.\n2. Review lens formula.", resp.Text())
	assert.Equal(t, newUsage(310, 42), resp.Usage)
	assert.Equal(t, "end", resp.StopReason)

	assert.EqualValues(t, 1024, stub.body["max_tokens"])
	assert.InDelta(t, 0.4, stub.body["temperature"], 1e-9)
	system, _ := stub.body["system"].([]any)
	require.Len(t, system, 1)
	assert.Contains(t, system[0], "text")
}

func TestAnthropicProvider_RateLimitCarriesRetryAfter(t *testing.T) {
	p, stub := newAnthropicStub(t, http.StatusTooManyRequests,
		http.Header{"Retry-After": {"7"}}, anthropicErrorBody("rate_limit_error", "slow down"))

	_, err := p.Generate(t.Context(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, MaxTokens: 16})

	var rl *ErrRateLimit
	require.True(t, errors.As(err, &rl), "got %T: %v", err, err)
	assert.Equal(t, 7*time.Second, rl.RetryAfter)
	assert.EqualValues(t, 1, stub.hits.Load(), "SDK retries must be off")
}

func TestAnthropicProvider_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"bad key", http.StatusUnauthorized, func(t *testing.T, err error) {
			var rej *ErrRejected
			require.True(t, errors.As(err, &rej), "got %T", err)
			assert.Equal(t, http.StatusUnauthorized, rej.Status)
		}},
		{"overloaded", 529, func(t *testing.T, err error) {
			var un *ErrProviderUnavailable
			assert.True(t, errors.As(err, &un), "got %T", err)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newAnthropicStub(t, tt.status, nil, anthropicErrorBody("api_error", tt.name))
			_, err := p.Generate(t.Context(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, MaxTokens: 16})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestAnthropicProvider_TruncatedAnswer(t *testing.T) {
	p, _ := newAnthropicStub(t, http.StatusOK, nil, anthropicMessage("max_tokens", "1. Revise"))
	_, err := p.Generate(t.Context(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, MaxTokens: 4})

	var mt *ErrMaxTokensExceeded
	assert.True(t, errors.As(err, &mt), "got %T", err)
}

func TestAnthropicProvider_EmptyAnswer(t *testing.T) {
	p, _ := newAnthropicStub(t, http.StatusOK, nil, anthropicMessage("end_turn"))
	_, err := p.Generate(t.Context(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, MaxTokens: 16})

	assert.ErrorIs(t, err, ErrEmptyResponse)
	var inv *ErrInvalidResponse
	assert.True(t, errors.As(err, &inv))
}

func TestNewAnthropicProvider_RequiresKey(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{Model: "claude-haiku"})
	assert.Error(t, err)
}
