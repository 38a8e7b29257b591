// Package llm talks to the language model that writes improvement
// suggestions. A Provider hides the vendor SDK; decorators add purpose
// defaults, retries and request logging on top.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider sends one prompt and waits for the whole answer.
type Provider interface {
	// Generate returns the model's answer to req. When req.Schema is set
	// the answer is JSON that has already passed schema validation.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID names the model requests are sent to.
	ModelID() string
}

// Request is a single-turn prompt. Zero MaxTokens and Temperature are
// filled from the purpose profile by WithPurposeDefaults.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema asks for structured output. Name doubles as the OpenAI schema name
// and the compiled-schema cache key, so it must be unique per definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model's answer. Content holds JSON for schema requests
// and the raw text otherwise; read text through Text.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string
	// StopReason is "end" or "max_tokens".
	StopReason string
}

// Usage counts the tokens billed for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

func newUsage(in, out int) Usage {
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

// Text returns Content as plain text. A JSON string literal is unquoted;
// anything else is returned trimmed.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Content, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(r.Content))
}

// finish turns a vendor answer into a Response. Blank answers and answers
// cut off by the token limit are errors; schema answers are unwrapped from
// any markdown fence and validated.
func finish(req Request, text string, usage Usage, model, stop string) (*Response, error) {
	content := json.RawMessage(text)
	if stop == "max_tokens" {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ErrInvalidResponse{Content: content, Err: ErrEmptyResponse}
	}
	if req.Schema != nil {
		content = stripFence(content)
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel maps a friendly model name to a vendor model ID; unknown
// names pass through unchanged.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
