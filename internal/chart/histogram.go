// Package chart draws terminal charts of attempt data with lipgloss.
package chart

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/abhisek/quizlens/internal/ui/theme"
)

// ErrNoData is returned when a chart has nothing to plot.
var ErrNoData = errors.New("chart: no data")

// DefaultBins is the bin count of the accuracy histogram.
const DefaultBins = 20

// Bin is one histogram bucket covering [Lo, Hi).
type Bin struct {
	Lo, Hi float64
	Count  int
}

// Bins buckets values into n equal-width bins spanning their range. The
// maximum value lands in the last bin.
func Bins(values []float64, n int) ([]Bin, error) {
	if len(values) == 0 {
		return nil, ErrNoData
	}
	if n < 1 {
		return nil, fmt.Errorf("chart: bin count must be positive, got %d", n)
	}

	x := append([]float64(nil), values...)
	sort.Float64s(x)
	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	dividers := floats.Span(make([]float64, n+1), lo, hi)
	// stat.Histogram wants every x strictly below the top divider.
	top := dividers[n]
	dividers[n] = math.Nextafter(top, math.Inf(1))
	counts := stat.Histogram(nil, dividers, x, nil)

	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(counts[i])}
	}
	bins[n-1].Hi = top
	return bins, nil
}

// Histogram renders values as horizontal bars, one row per bin, scaled so
// the fullest bin spans width cells.
func Histogram(title string, values []float64, n, width int) (string, error) {
	bins, err := Bins(values, n)
	if err != nil {
		return "", err
	}
	if width < 1 {
		width = 1
	}

	peak := 0
	for _, b := range bins {
		peak = max(peak, b.Count)
	}

	bar := lipgloss.NewStyle().Foreground(theme.Secondary)
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(title))
	sb.WriteString("\n")
	for _, b := range bins {
		cells := 0
		if peak > 0 {
			cells = int(math.Round(float64(b.Count) / float64(peak) * float64(width)))
		}
		label := fmt.Sprintf("%7.2f-%-7.2f", b.Lo, b.Hi)
		sb.WriteString(theme.Subtitle.Render(label))
		sb.WriteString(" │")
		sb.WriteString(bar.Render(strings.Repeat("█", cells)))
		if b.Count > 0 {
			fmt.Fprintf(&sb, " %d", b.Count)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
