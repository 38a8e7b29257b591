// Package advisor asks a language model for improvement suggestions built
// from the weak and strong topic tables.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/quizlens/internal/analysis"
	"github.com/abhisek/quizlens/internal/llm"
	"github.com/abhisek/quizlens/internal/logger"
	"github.com/abhisek/quizlens/internal/report"
)

const systemPrompt = "You are a test assessment analyzer and mentor for NEET students."

// Advisor turns topic summaries into suggestions via a Provider. Token
// limits and temperature come from the llm purpose profiles.
type Advisor struct {
	provider llm.Provider
}

// New returns an Advisor backed by provider.
func New(provider llm.Provider) *Advisor {
	return &Advisor{provider: provider}
}

// Prompt renders the user message embedding both topic tables.
func Prompt(weak, strong []analysis.TopicSummary) string {
	var b strings.Builder
	b.WriteString("Context: The student's performance report is summarized below.\n\n")
	b.WriteString("Weak Topics:\n")
	b.WriteString(report.PlainTable(weak))
	b.WriteString("\nStrong Topics:\n")
	b.WriteString(report.PlainTable(strong))
	b.WriteString("\nAdditional Information:\n")
	b.WriteString("- Average duration and timestamps of quizzes are available.\n")
	b.WriteString("- Provide time management strategies and improvement suggestions.\n")
	return b.String()
}

func request(weak, strong []analysis.TopicSummary, schema *llm.Schema) llm.Request {
	return llm.Request{
		System:   systemPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: Prompt(weak, strong)}},
		Schema:   schema,
	}
}

// Suggest returns free-form suggestion text.
func (a *Advisor) Suggest(ctx context.Context, weak, strong []analysis.TopicSummary) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeSuggestions)
	resp, err := a.provider.Generate(ctx, request(weak, strong, nil))
	if err != nil {
		return "", fmt.Errorf("generate suggestions: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("generate suggestions: %w", &llm.ErrInvalidResponse{Content: resp.Content, Err: llm.ErrEmptyResponse})
	}
	logger.FromContext(ctx).WithPrefix("advisor").Debug("suggestions received: %d bytes", len(text))
	return text, nil
}

// Plan requests suggestions as JSON matching PlanSchema.
func (a *Advisor) Plan(ctx context.Context, weak, strong []analysis.TopicSummary) (*StudyPlan, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeStudyPlan)
	resp, err := a.provider.Generate(ctx, request(weak, strong, PlanSchema))
	if err != nil {
		return nil, fmt.Errorf("generate study plan: %w", err)
	}
	var plan StudyPlan
	if err := llm.Decode(PlanSchema, resp.Content, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
