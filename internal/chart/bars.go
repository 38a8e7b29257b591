package chart

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizlens/internal/analysis"
	"github.com/abhisek/quizlens/internal/ui/theme"
)

// Group is one labelled cluster of bars.
type Group struct {
	Label   string
	Metrics []analysis.Metric
}

// GroupedBars renders each group as a stack of horizontal bars, one per
// metric, coloured along the cool-warm ramp. All bars share one scale so
// the longest spans width cells.
func GroupedBars(title string, groups []Group, width int) (string, error) {
	if len(groups) == 0 {
		return "", ErrNoData
	}
	width = max(width, 1)

	peak, labelW, nameW := 0.0, 0, 0
	var names []string
	for _, g := range groups {
		labelW = max(labelW, lipgloss.Width(g.Label))
		for i, m := range g.Metrics {
			peak = max(peak, math.Abs(m.Value))
			nameW = max(nameW, len(m.Name))
			if i >= len(names) {
				names = append(names, m.Name)
			}
		}
	}

	colours := make([]lipgloss.Style, len(names))
	for i := range names {
		t := 0.0
		if len(names) > 1 {
			t = float64(i) / float64(len(names)-1)
		}
		colours[i] = lipgloss.NewStyle().Foreground(theme.Ramp(theme.CoolWarm, t))
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(title))
	sb.WriteString("\n")
	for i, name := range names {
		sb.WriteString(colours[i].Render("■ " + name))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")

	for _, g := range groups {
		sb.WriteString(theme.Label.Render(g.Label))
		sb.WriteString("\n")
		for i, m := range g.Metrics {
			cells := 0
			if peak > 0 {
				cells = int(math.Round(math.Abs(m.Value) / peak * float64(width)))
			}
			fmt.Fprintf(&sb, "  %-*s │", nameW, m.Name)
			sb.WriteString(colours[i%len(colours)].Render(strings.Repeat("█", cells)))
			fmt.Fprintf(&sb, " %.2f\n", m.Value)
		}
	}
	return sb.String(), nil
}
