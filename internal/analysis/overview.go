package analysis

import (
	"github.com/abhisek/quizlens/internal/clean"
)

// Overview holds the headline indicators across every attempt.
type Overview struct {
	Attempts        int     `json:"attempts"`
	Topics          int     `json:"topics"`
	OverallAccuracy float64 `json:"overall_accuracy"`
	AvgSpeed        float64 `json:"avg_speed"`
	AvgScore        float64 `json:"avg_score"`
	BestTopic       string  `json:"best_topic,omitempty"`
	HardestTopic    string  `json:"hardest_topic,omitempty"`
	Defaulted       int     `json:"defaulted"`
}

// Overall computes the Overview for rows and their topic summaries.
func Overall(rows []clean.Row, summaries []TopicSummary) Overview {
	ov := Overview{Attempts: len(rows), Topics: len(summaries)}

	accuracy := make([]float64, 0, len(rows))
	speed := make([]float64, 0, len(rows))
	score := make([]float64, 0, len(rows))
	for _, r := range rows {
		accuracy = append(accuracy, r.Attempt.Accuracy.Float())
		speed = append(speed, r.Attempt.Speed.Float())
		score = append(score, r.Attempt.Score.Float())
		ov.Defaulted += len(r.Attempt.Defaulted()) + len(r.Quiz.Defaulted())
	}
	ov.OverallAccuracy = mean(accuracy)
	ov.AvgSpeed = mean(speed)
	ov.AvgScore = mean(score)

	if best, ok := Best(summaries); ok {
		ov.BestTopic = best.Topic
	}
	if worst, ok := Worst(summaries); ok {
		ov.HardestTopic = worst.Topic
	}
	return ov
}

// Metric is one named per-topic average, used for grouped comparisons.
type Metric struct {
	Name  string
	Value float64
}

// CompareMetrics returns the score, accuracy and correct-answer means of s
// in a fixed order.
func CompareMetrics(s TopicSummary) []Metric {
	return []Metric{
		{Name: "score", Value: s.AvgScore},
		{Name: "accuracy", Value: s.AvgAccuracy},
		{Name: "correct_answers", Value: s.AvgCorrectAnswers},
	}
}
