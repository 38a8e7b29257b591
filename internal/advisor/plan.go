package advisor

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizlens/internal/llm"
)

// StudyPlan is the structured form of the suggestions.
type StudyPlan struct {
	Summary        string      `json:"summary"`
	Topics         []TopicPlan `json:"topics"`
	TimeManagement []string    `json:"time_management"`
}

// TopicPlan holds the actions proposed for one topic.
type TopicPlan struct {
	Topic    string   `json:"topic"`
	Priority string   `json:"priority"`
	Actions  []string `json:"actions"`
}

// PlanSchema constrains the structured response.
var PlanSchema = &llm.Schema{
	Name:        "study-plan",
	Description: "Improvement plan for a NEET student based on weak and strong quiz topics",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Two or three sentences on overall performance",
			},
			"topics": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"topic":    map[string]any{"type": "string"},
						"priority": map[string]any{"type": "string", "enum": []any{"high", "medium", "low"}},
						"actions": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required":             []any{"topic", "priority", "actions"},
					"additionalProperties": false,
				},
			},
			"time_management": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"summary", "topics", "time_management"},
		"additionalProperties": false,
	},
}

// String renders the plan as numbered plain text.
func (p StudyPlan) String() string {
	var b strings.Builder
	if p.Summary != "" {
		b.WriteString(strings.TrimSpace(p.Summary))
		b.WriteString("\n")
	}
	for i, t := range p.Topics {
		fmt.Fprintf(&b, "\n%d. %s [%s priority]\n", i+1, t.Topic, t.Priority)
		for _, a := range t.Actions {
			fmt.Fprintf(&b, "   - %s\n", a)
		}
	}
	if len(p.TimeManagement) > 0 {
		b.WriteString("\nTime management:\n")
		for _, tip := range p.TimeManagement {
			fmt.Fprintf(&b, "   - %s\n", tip)
		}
	}
	return b.String()
}
