// Package analysis groups cleaned attempts by topic and computes the
// aggregate statistics every report is built from.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/abhisek/quizlens/internal/clean"
)

// TopicSummary aggregates every attempt that shares a topic. Durations are
// in seconds.
type TopicSummary struct {
	Topic                string  `json:"topic"`
	Attempts             int     `json:"attempts"`
	AvgScore             float64 `json:"avg_score"`
	MaxScore             float64 `json:"max_score"`
	MinScore             float64 `json:"min_score"`
	AvgAccuracy          float64 `json:"avg_accuracy"`
	AvgCorrectAnswers    float64 `json:"avg_correct_answers"`
	AvgNegativeMarks     float64 `json:"avg_negative_marks"`
	AvgCorrectMarks      float64 `json:"avg_correct_marks"`
	AvgQuizDuration      float64 `json:"avg_quiz_duration"`
	AvgAttemptDuration   float64 `json:"avg_attempt_duration"`
	AvgProcessingMinutes float64 `json:"avg_processing_minutes"`
	// Defaulted counts fields in this topic that were present but
	// unparseable and therefore counted as 0.
	Defaulted int `json:"defaulted"`
}

type topicColumns struct {
	score, accuracy, correct, negMarks, correctMarks []float64
	quizDuration, attemptDuration, processing        []float64
	defaulted                                        int
}

// Summarize groups rows by exact topic string and returns one summary per
// topic sorted by topic. Rows without a topic are skipped. Topics differing
// only in case or whitespace are separate groups.
func Summarize(rows []clean.Row) []TopicSummary {
	groups := map[string]*topicColumns{}
	for _, r := range rows {
		topic, ok := r.Topic()
		if !ok {
			continue
		}
		g, ok := groups[topic]
		if !ok {
			g = &topicColumns{}
			groups[topic] = g
		}
		a, q := r.Attempt, r.Quiz
		g.score = append(g.score, a.Score.Float())
		g.accuracy = append(g.accuracy, a.Accuracy.Float())
		g.correct = append(g.correct, a.CorrectAnswers.Float())
		g.negMarks = append(g.negMarks, q.NegativeMarks.Float())
		g.correctMarks = append(g.correctMarks, q.CorrectAnswerMarks.Float())
		g.quizDuration = append(g.quizDuration, q.Duration.Float())
		g.attemptDuration = append(g.attemptDuration, a.Duration.Float())
		g.processing = append(g.processing, q.ProcessingMinutes.Float())
		g.defaulted += len(a.Defaulted()) + len(q.Defaulted())
	}

	out := make([]TopicSummary, 0, len(groups))
	for topic, g := range groups {
		out = append(out, TopicSummary{
			Topic:                topic,
			Attempts:             len(g.score),
			AvgScore:             mean(g.score),
			MaxScore:             floats.Max(g.score),
			MinScore:             floats.Min(g.score),
			AvgAccuracy:          mean(g.accuracy),
			AvgCorrectAnswers:    mean(g.correct),
			AvgNegativeMarks:     mean(g.negMarks),
			AvgCorrectMarks:      mean(g.correctMarks),
			AvgQuizDuration:      mean(g.quizDuration),
			AvgAttemptDuration:   mean(g.attemptDuration),
			AvgProcessingMinutes: mean(g.processing),
			Defaulted:            g.defaulted,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out
}

// mean is stat.Mean with 0 for an empty sample.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// Best returns the topic with the highest mean score. Ties go to the
// first topic in order.
func Best(summaries []TopicSummary) (TopicSummary, bool) {
	return pick(summaries, func(a, b float64) bool { return a > b })
}

// Worst returns the topic with the lowest mean score.
func Worst(summaries []TopicSummary) (TopicSummary, bool) {
	return pick(summaries, func(a, b float64) bool { return a < b })
}

func pick(summaries []TopicSummary, better func(a, b float64) bool) (TopicSummary, bool) {
	if len(summaries) == 0 {
		return TopicSummary{}, false
	}
	best := summaries[0]
	for _, s := range summaries[1:] {
		if better(s.AvgScore, best.AvgScore) {
			best = s
		}
	}
	return best, true
}
