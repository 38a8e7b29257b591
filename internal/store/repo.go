package store

import (
	"context"
	"time"
)

// QueryOpts configures event and run queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // LLM events only; empty matches all
}

// Run is one recorded analysis over a historical data set.
type Run struct {
	ID              string    `json:"id"`
	Kind            string    `json:"kind"` // "analyze" or "detail"
	Sequence        int64     `json:"sequence"`
	CreatedAt       time.Time `json:"created_at"`
	HistoricalURL   string    `json:"historical_url"`
	SubmissionURL   string    `json:"submission_url,omitempty"`
	Threshold       float64   `json:"threshold"`
	Attempts        int       `json:"attempts"`
	Topics          int       `json:"topics"`
	OverallAccuracy float64   `json:"overall_accuracy"`
	AvgSpeed        float64   `json:"avg_speed"`
	AvgScore        float64   `json:"avg_score"`
	BestTopic       string    `json:"best_topic,omitempty"`
	HardestTopic    string    `json:"hardest_topic,omitempty"`
	Defaulted       int       `json:"defaulted"`
	Suggestions     string    `json:"suggestions,omitempty"`
}

// TopicSnapshot is one topic's aggregates as recorded for a run.
type TopicSnapshot struct {
	RunID           string    `json:"run_id"`
	CreatedAt       time.Time `json:"created_at"`
	Topic           string    `json:"topic"`
	Attempts        int       `json:"attempts"`
	AvgScore        float64   `json:"avg_score"`
	MaxScore        float64   `json:"max_score"`
	MinScore        float64   `json:"min_score"`
	AvgAccuracy     float64   `json:"avg_accuracy"`
	AvgQuizDuration float64   `json:"avg_quiz_duration"`
	Weak            bool      `json:"weak"`
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
	CostUSD      float64
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	ID        int       `json:"id"`
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	LLMRequestEventData
}

// LLMUsage aggregates requests sharing a purpose or a model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
	CostUSD      float64
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// RunRecorder persists finished analysis runs.
type RunRecorder interface {
	Save(ctx context.Context, run *Run, topics []TopicSnapshot) error
}

// NopEventRepo discards events. It stands in when no database is configured.
type NopEventRepo struct{}

func (NopEventRepo) AppendLLMRequest(context.Context, LLMRequestEventData) error { return nil }

// NopRunRecorder discards runs.
type NopRunRecorder struct{}

func (NopRunRecorder) Save(context.Context, *Run, []TopicSnapshot) error { return nil }
