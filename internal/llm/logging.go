package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/quizlens/internal/logger"
	"github.com/abhisek/quizlens/internal/store"
)

type loggingProvider struct {
	inner     Provider
	eventRepo store.EventRepo
}

// WithLogging records every request, failed or not, as an LLM request
// event with its purpose, token counts and estimated cost.
func WithLogging(p Provider, repo store.EventRepo) Provider {
	return &loggingProvider{inner: p, eventRepo: repo}
}

// vendorOf names the API behind p for the event's provider column.
func vendorOf(p Provider) string {
	switch v := p.(type) {
	case *AnthropicProvider:
		return "anthropic"
	case *GeminiProvider:
		return "gemini"
	case *OpenAIProvider:
		return v.vendor
	case *MockProvider:
		return "mock"
	}
	return p.ModelID()
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	log := logger.FromContext(ctx).WithPrefix("llm")
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMRequestEventData{
		Provider:    vendorOf(l.inner),
		Model:       l.inner.ModelID(),
		Purpose:     string(purpose),
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
		if c := LookupCost(resp.Model); c != nil {
			data.CostUSD = c.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens)
		}
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		log.WithFields(map[string]any{"purpose": purpose, "latency_ms": latencyMs}).
			Warn("request failed: %v", err)
	} else {
		log.WithFields(map[string]any{
			"purpose":    purpose,
			"model":      data.Model,
			"latency_ms": latencyMs,
			"tokens_in":  data.InputTokens,
			"tokens_out": data.OutputTokens,
		}).Debug("request served")
	}

	// Log the event but don't fail the request if logging fails.
	if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
		log.Warn("failed to record LLM request event: %v", logErr)
	}

	return resp, err
}

func (l *loggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(schemaDef)
			b.WriteString("\n")
		}
	}

	return b.String()
}
