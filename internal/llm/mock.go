package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one queued answer. Err, when set, is returned instead.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider answers from a FIFO queue and records every request. With
// the queue empty it answers with a fixture for the request's purpose, so
// the "mock" provider drives a full analyze run offline.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
	Purposes  []Purpose
}

// NewMockProvider queues responses in order.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	purpose := PurposeFrom(ctx)
	m.Calls = append(m.Calls, req)
	m.Purposes = append(m.Purposes, purpose)

	if len(m.responses) == 0 {
		return fixtureResponse(req, purpose), nil
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: "end"}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse queues one more response.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns how many requests were made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockSuggestions is the fixture answer for PurposeSuggestions.
const MockSuggestions = `1. Revisit the weakest topic first and redo its last quiz untimed.
2. Keep strong topics warm with one short mixed quiz a week.
3. Skip questions you cannot start within 60 seconds and return to them at the end.`

// MockStudyPlan is the fixture answer for schema requests.
const MockStudyPlan = `{
  "summary": "Scores are uneven across topics; focus practice where accuracy is lowest.",
  "topics": [
    {"topic": "weakest topic", "priority": "high", "actions": ["Redo the last quiz untimed", "Review every wrong answer"]}
  ],
  "time_management": ["Skip questions you cannot start within 60 seconds"]
}`

func fixtureResponse(req Request, purpose Purpose) *Response {
	content, _ := json.Marshal(MockSuggestions)
	if req.Schema != nil || purpose == PurposeStudyPlan {
		content = json.RawMessage(MockStudyPlan)
	}
	return &Response{
		Content:    content,
		Usage:      newUsage(estimateTokens(req), estimateTokens(Request{Messages: []Message{{Content: string(content)}}})),
		Model:      "mock",
		StopReason: "end",
	}
}

// estimateTokens approximates the token count at four characters a token.
func estimateTokens(req Request) int {
	n := len(req.System)
	for _, m := range req.Messages {
		n += len(m.Content)
	}
	return (n + 3) / 4
}

