package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_QueueThenFixtures(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`"queued"`), Usage: newUsage(10, 5)})
	ctx := WithPurpose(t.Context(), PurposeSuggestions)
	req := Request{System: "mentor", Messages: []Message{{Role: RoleUser, Content: "Weak Topics:\nOptics"}}}

	first, err := mock.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "queued", first.Text())
	assert.Equal(t, 15, first.Usage.TotalTokens)

	second, err := mock.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, MockSuggestions, second.Text())
	assert.Equal(t, estimateTokens(req), second.Usage.InputTokens)
	assert.Positive(t, second.Usage.OutputTokens)

	assert.Equal(t, []Purpose{PurposeSuggestions, PurposeSuggestions}, mock.Purposes)
	assert.Equal(t, 2, mock.CallCount())
}

func TestMockProvider_StudyPlanFixtureIsValidJSON(t *testing.T) {
	mock := NewMockProvider()
	resp, err := mock.Generate(WithPurpose(t.Context(), PurposeStudyPlan), Request{Schema: planSchema})
	require.NoError(t, err)

	var plan struct {
		Summary string `json:"summary"`
		Topics  []struct {
			Priority string `json:"priority"`
		} `json:"topics"`
	}
	require.NoError(t, json.Unmarshal(resp.Content, &plan))
	assert.NotEmpty(t, plan.Summary)
	require.Len(t, plan.Topics, 1)
	assert.Equal(t, "high", plan.Topics[0].Priority)
}

func TestMockProvider_QueuedError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})
	_, err := mock.Generate(t.Context(), Request{})
	var rl *ErrRateLimit
	assert.True(t, errors.As(err, &rl))
	assert.Equal(t, "mock", mock.ModelID())
}

func TestPurposeFrom(t *testing.T) {
	assert.Equal(t, PurposeUnknown, PurposeFrom(t.Context()))
	assert.Equal(t, PurposeStudyPlan, PurposeFrom(WithPurpose(t.Context(), PurposeStudyPlan)))
	assert.Equal(t, PurposeUnknown, PurposeFrom(WithPurpose(t.Context(), "")))
}

func TestProfile_Shape(t *testing.T) {
	plan := ProfileFor(PurposeStudyPlan)
	assert.Equal(t, 2048, plan.MaxTokens)

	shaped := plan.Shape(Request{})
	assert.Equal(t, 2048, shaped.MaxTokens)
	assert.InDelta(t, 0.2, shaped.Temperature, 1e-9)

	kept := plan.Shape(Request{MaxTokens: 64, Temperature: 0.9})
	assert.Equal(t, 64, kept.MaxTokens)
	assert.InDelta(t, 0.9, kept.Temperature, 1e-9)

	assert.Equal(t, ProfileFor(PurposeUnknown), ProfileFor("weekly-digest"))
}

func TestWithPurposeDefaults(t *testing.T) {
	mock := NewMockProvider()
	p := WithPurposeDefaults(mock)

	_, err := p.Generate(WithPurpose(t.Context(), PurposeSuggestions), Request{})
	require.NoError(t, err)
	_, err = p.Generate(WithPurpose(t.Context(), PurposeStudyPlan), Request{Schema: planSchema})
	require.NoError(t, err)

	require.Len(t, mock.Calls, 2)
	assert.Equal(t, 1024, mock.Calls[0].MaxTokens)
	assert.Equal(t, 2048, mock.Calls[1].MaxTokens)
	assert.Equal(t, "mock", p.ModelID())
}

func TestFinish(t *testing.T) {
	t.Run("fenced plan is unwrapped", func(t *testing.T) {
		resp, err := finish(Request{Schema: planSchema}, "```json\n{\"summary\":\"s\",\"topics\":[]}\n```", Usage{}, "m", "end")
		require.NoError(t, err)
		assert.JSONEq(t, `{"summary":"s","topics":[]}`, string(resp.Content))
	})
	t.Run("text answers keep their fences", func(t *testing.T) {
		resp, err := finish(Request{}, "```\ncode\n```", Usage{}, "m", "end")
		require.NoError(t, err)
		assert.Equal(t, "```\ncode\n```", resp.Text())
	})
	t.Run("blank", func(t *testing.T) {
		_, err := finish(Request{}, " \n", Usage{}, "m", "end")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
	t.Run("truncated", func(t *testing.T) {
		_, err := finish(Request{}, "1. Rev", Usage{}, "m", "max_tokens")
		var mt *ErrMaxTokensExceeded
		assert.True(t, errors.As(err, &mt))
	})
}

func TestNewProvider_MockRunsThroughChain(t *testing.T) {
	repo := &recordingRepo{}
	p, err := NewProvider(t.Context(), Config{Provider: "mock"}, repo)
	require.NoError(t, err)

	resp, err := p.Generate(WithPurpose(t.Context(), PurposeSuggestions), Request{
		Messages: []Message{{Role: RoleUser, Content: "Weak Topics:\nOptics"}},
	})
	require.NoError(t, err)
	assert.Equal(t, MockSuggestions, resp.Text())

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.Equal(t, "suggestions", ev.Purpose)
	assert.True(t, ev.Success)
	assert.Positive(t, ev.InputTokens)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, "QUIZLENS_ANTHROPIC_API_KEY"},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk"}}, ""},
		{"gemini without key", Config{Provider: "gemini"}, "GEMINI_API_KEY"},
		{"openrouter without key", Config{Provider: "openrouter"}, "QUIZLENS_OPENROUTER_API_KEY"},
		{"mock", Config{Provider: "mock"}, ""},
		{"disabled", Config{Provider: ProviderNone}, ""},
		{"unknown", Config{Provider: "bard"}, `unknown LLM provider: "bard"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
