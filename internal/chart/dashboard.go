package chart

import (
	"strings"

	"github.com/abhisek/quizlens/internal/analysis"
	"github.com/abhisek/quizlens/internal/clean"
)

// Dashboard draws the accuracy histogram, the score against correct answers
// scatter (correct answers across, score up) and the per-topic metric
// bars, in that order. Charts with nothing
// to plot are left out; ErrNoData is returned only if all are.
func Dashboard(rows []clean.Row, summaries []analysis.TopicSummary, width int) (string, error) {
	width = max(width, 40)
	var parts []string

	accuracy := make([]float64, 0, len(rows))
	points := make([]Point, 0, len(rows))
	for _, r := range rows {
		a := r.Attempt
		accuracy = append(accuracy, a.Accuracy.Float())
		points = append(points, Point{
			X:    a.CorrectAnswers.Float(),
			Y:    a.Score.Float(),
			Hue:  a.Rank.Float(),
			Size: a.InitialMistakeCount.Float(),
		})
	}

	if h, err := Histogram("Distribution of Accuracy", accuracy, DefaultBins, width-20); err == nil {
		parts = append(parts, h)
	}
	if s, err := Scatter("Score vs Correct Answers (colour: rank, glyph: initial mistakes)",
		"correct answers", "score", points, width-10, 16); err == nil {
		parts = append(parts, s)
	}

	groups := make([]Group, 0, len(summaries))
	for _, s := range summaries {
		groups = append(groups, Group{Label: s.Topic, Metrics: analysis.CompareMetrics(s)})
	}
	if b, err := GroupedBars("Topic-wise Performance Comparison", groups, width-30); err == nil {
		parts = append(parts, b)
	}

	if len(parts) == 0 {
		return "", ErrNoData
	}
	return strings.Join(parts, "\n"), nil
}
