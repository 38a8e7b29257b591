package analysis

import (
	"github.com/abhisek/quizlens/internal/clean"
)

// SubmissionComparison sets one submitted attempt beside the historical
// mean for its topic.
type SubmissionComparison struct {
	Topic         string  `json:"topic"`
	Score         float64 `json:"score"`
	Accuracy      float64 `json:"accuracy"`
	HistoricalAvg float64 `json:"historical_avg"`
	HasHistory    bool    `json:"has_history"`
	// Delta is Score - HistoricalAvg, 0 without history.
	Delta float64 `json:"delta"`
}

// CompareSubmission lines each submitted row up against summaries. The
// submission is never folded into the historical aggregates.
func CompareSubmission(submission []clean.Row, summaries []TopicSummary) []SubmissionComparison {
	byTopic := make(map[string]TopicSummary, len(summaries))
	for _, s := range summaries {
		byTopic[s.Topic] = s
	}

	out := make([]SubmissionComparison, 0, len(submission))
	for _, r := range submission {
		topic, _ := r.Topic()
		c := SubmissionComparison{
			Topic:    topic,
			Score:    r.Attempt.Score.Float(),
			Accuracy: r.Attempt.Accuracy.Float(),
		}
		if hist, ok := byTopic[topic]; ok {
			c.HistoricalAvg = hist.AvgScore
			c.HasHistory = true
			c.Delta = c.Score - hist.AvgScore
		}
		out = append(out, c)
	}
	return out
}
