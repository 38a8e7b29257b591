package llm

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatStub struct {
	path string
	auth string
	body map[string]any
}

func newChatServer(t *testing.T, status int, reply any) (string, *chatStub) {
	t.Helper()
	stub := &chatStub{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.path = r.URL.Path
		stub.auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&stub.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/v1", stub
}

func chatCompletion(finish, content string) map[string]any {
	return map[string]any{
		"id": "chatcmpl-1", "object": "chat.completion", "created": 1700000000, "model": "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 280, "completion_tokens": 95, "total_tokens": 375},
	}
}

var planSchema = &Schema{
	Name: "plan-test",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
			"topics":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []any{"summary", "topics"},
		"additionalProperties": false,
	},
}

func TestOpenAIProvider_StudyPlanSchema(t *testing.T) {
	// Models sometimes fence JSON even in schema mode.
	answer := "```json\n{\"summary\":\"Physics lags.\",\"topics\":[\"Optics\"]}\n```"
	baseURL, stub := newChatServer(t, http.StatusOK, chatCompletion("stop", answer))

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: baseURL})
	require.NoError(t, err)

	req := ProfileFor(PurposeStudyPlan).Shape(Request{
		System:   "mentor",
		Messages: []Message{{Role: RoleUser, Content: "Weak Topics:\nOptics"}},
		Schema:   planSchema,
	})
	resp, err := p.Generate(t.Context(), req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"Physics lags.","topics":["Optics"]}`, string(resp.Content))
	assert.Equal(t, newUsage(280, 95), resp.Usage)

	assert.Equal(t, "/v1/chat/completions", stub.path)
	assert.EqualValues(t, 2048, stub.body["max_completion_tokens"])
	format, _ := stub.body["response_format"].(map[string]any)
	require.NotNil(t, format)
	assert.Equal(t, "json_schema", format["type"])
	messages, _ := stub.body["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
}

func TestOpenAIProvider_SchemaMismatch(t *testing.T) {
	baseURL, _ := newChatServer(t, http.StatusOK, chatCompletion("stop", `{"summary":"ok"}`))
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: baseURL})
	require.NoError(t, err)

	_, err = p.Generate(t.Context(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, Schema: planSchema})
	var inv *ErrInvalidResponse
	assert.True(t, errors.As(err, &inv), "got %T: %v", err, err)
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target any
	}{
		{"rate limited", http.StatusTooManyRequests, new(*ErrRateLimit)},
		{"unknown model", http.StatusNotFound, new(*ErrRejected)},
		{"server error", http.StatusBadGateway, new(*ErrProviderUnavailable)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseURL, _ := newChatServer(t, tt.status, map[string]any{
				"error": map[string]any{"type": "x", "message": tt.name},
			})
			p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: baseURL})
			require.NoError(t, err)

			_, err = p.Generate(t.Context(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
			require.Error(t, err)
			assert.True(t, errors.As(err, tt.target), "got %T: %v", err, err)
		})
	}
}

func TestOpenAIProvider_LengthCutoff(t *testing.T) {
	baseURL, _ := newChatServer(t, http.StatusOK, chatCompletion("length", "1. Revise"))
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: baseURL})
	require.NoError(t, err)

	_, err = p.Generate(t.Context(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	var mt *ErrMaxTokensExceeded
	assert.True(t, errors.As(err, &mt), "got %T", err)
}

func TestOpenRouterProvider(t *testing.T) {
	baseURL, stub := newChatServer(t, http.StatusOK, chatCompletion("stop", "Practise Optics daily."))

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "or-key", Model: "google/gemini-2.0-flash-exp", BaseURL: baseURL})
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.0-flash-exp", p.ModelID())

	resp, err := p.Generate(t.Context(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	require.NoError(t, err)
	assert.Equal(t, "Practise Optics daily.", resp.Text())
	assert.Equal(t, "Bearer or-key", stub.auth)
	assert.Equal(t, "google/gemini-2.0-flash-exp", stub.body["model"])
}

func TestOpenRouterProvider_Defaults(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "or-key", Model: "gpt-4o"})
	require.NoError(t, err)
	// Friendly names are not resolved for OpenRouter.
	assert.Equal(t, "gpt-4o", p.ModelID())
	assert.Equal(t, "openrouter", p.vendor)

	_, err = NewOpenRouterProvider(OpenRouterConfig{Model: "gpt-4o"})
	assert.ErrorContains(t, err, "openrouter API key is required")
}
