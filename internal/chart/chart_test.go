package chart

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizlens/internal/analysis"
	"github.com/abhisek/quizlens/internal/clean"
	"github.com/abhisek/quizlens/internal/table"
)

func TestBins(t *testing.T) {
	bins, err := Bins([]float64{0, 10, 10, 50, 100}, 10)
	require.NoError(t, err)
	require.Len(t, bins, 10)

	assert.Equal(t, 0.0, bins[0].Lo)
	assert.Equal(t, 100.0, bins[9].Hi)
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 2, bins[1].Count)
	assert.Equal(t, 1, bins[5].Count)
	assert.Equal(t, 1, bins[9].Count, "maximum lands in the last bin")

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 5, total)
}

func TestBins_SingleValue(t *testing.T) {
	bins, err := Bins([]float64{42, 42}, 4)
	require.NoError(t, err)

	total := 0
	for _, b := range bins {
		total += b.Count
		assert.Less(t, b.Lo, b.Hi)
	}
	assert.Equal(t, 2, total)
}

func TestBins_Errors(t *testing.T) {
	_, err := Bins(nil, 20)
	assert.True(t, errors.Is(err, ErrNoData))

	_, err = Bins([]float64{1}, 0)
	assert.Error(t, err)
}

func TestBins_DoesNotSortInput(t *testing.T) {
	in := []float64{3, 1, 2}
	_, err := Bins(in, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestHistogram(t *testing.T) {
	out, err := Histogram("Accuracy", []float64{10, 20, 90}, DefaultBins, 30)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, DefaultBins+1)
	assert.Contains(t, out, "Accuracy")
	assert.Contains(t, out, "█")
}

func TestScatter(t *testing.T) {
	out, err := Scatter("S", "score", "correct", []Point{
		{X: 0, Y: 0, Hue: 1, Size: 0},
		{X: 100, Y: 40, Hue: 500, Size: 9},
	}, 20, 5)
	require.NoError(t, err)

	assert.Contains(t, out, "40.0")
	assert.Contains(t, out, "100.0")
	assert.Contains(t, out, "·")
	assert.Contains(t, out, "●")

	_, err = Scatter("S", "x", "y", nil, 20, 5)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestScatter_DegenerateSpan(t *testing.T) {
	out, err := Scatter("S", "x", "y", []Point{{X: 5, Y: 5}, {X: 5, Y: 5}}, 10, 4)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGroupedBars(t *testing.T) {
	out, err := GroupedBars("Topics", []Group{
		{Label: "Biology", Metrics: analysis.CompareMetrics(analysis.TopicSummary{AvgScore: 60, AvgAccuracy: 75, AvgCorrectAnswers: 12})},
		{Label: "Physics", Metrics: analysis.CompareMetrics(analysis.TopicSummary{AvgScore: 90})},
	}, 20)
	require.NoError(t, err)

	assert.Contains(t, out, "Biology")
	assert.Contains(t, out, "correct_answers")
	assert.Contains(t, out, " 90.00")

	_, err = GroupedBars("Topics", nil, 20)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestDashboard(t *testing.T) {
	attempts, quizzes := clean.Clean(table.Normalize([]any{
		map[string]any{"score": 80, "accuracy": "90", "correct_answers": 20, "rank_text": "#-12", "quiz": map[string]any{"topic": "Biology"}},
		map[string]any{"score": 40, "accuracy": "50", "correct_answers": 10, "rank_text": "#-171", "quiz": map[string]any{"topic": "Physics"}},
	}))
	rows, err := clean.Merge(attempts, quizzes)
	require.NoError(t, err)

	out, err := Dashboard(rows, analysis.Summarize(rows), 80)
	require.NoError(t, err)
	assert.Contains(t, out, "Distribution of Accuracy")
	assert.Contains(t, out, "Score vs Correct Answers")
	assert.Contains(t, out, "Topic-wise Performance Comparison")
}

func TestDashboard_ScatterAxes(t *testing.T) {
	attempts, quizzes := clean.Clean(table.Normalize([]any{
		map[string]any{"score": 80, "correct_answers": 20, "quiz": map[string]any{"topic": "Biology"}},
		map[string]any{"score": 40, "correct_answers": 10, "quiz": map[string]any{"topic": "Physics"}},
	}))
	rows, err := clean.Merge(attempts, quizzes)
	require.NoError(t, err)

	styled, err := Dashboard(rows, analysis.Summarize(rows), 80)
	require.NoError(t, err)
	out := ansi.Strip(styled)

	start := strings.Index(out, "Score vs Correct Answers")
	end := strings.Index(out, "Topic-wise Performance Comparison")
	require.True(t, start >= 0 && end > start)
	lines := strings.Split(strings.TrimRight(out[start:end], "\n"), "\n")
	require.Greater(t, len(lines), 4)

	assert.Equal(t, "score", strings.TrimSpace(lines[1]), "score runs up the vertical axis")
	assert.Contains(t, lines[2], "80.0", "top of the vertical axis is the highest score")
	assert.Contains(t, lines[len(lines)-4], "40.0")

	xRange := strings.Fields(lines[len(lines)-2])
	assert.Equal(t, []string{"10.0", "20.0"}, xRange, "correct answers run along the horizontal axis")
	assert.Equal(t, "correct answers", strings.TrimSpace(lines[len(lines)-1]))
}

func TestDashboard_Empty(t *testing.T) {
	_, err := Dashboard(nil, nil, 80)
	assert.ErrorIs(t, err, ErrNoData)
}
