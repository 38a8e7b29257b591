package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizlens/internal/ui/theme"
)

// ScoreBar draws a 0-100 score as a horizontal bar.
type ScoreBar struct {
	Label     string
	Score     float64
	ShowValue bool
	Width     int
	// Fill colours the filled part; nil uses theme.Secondary.
	Fill color.Color
}

// NewScoreBar creates a score bar.
func NewScoreBar(label string, score float64, showValue bool, width int) ScoreBar {
	return ScoreBar{
		Label:     label,
		Score:     score,
		ShowValue: showValue,
		Width:     width,
	}
}

// View renders the bar.
func (p ScoreBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	valueWidth := 0
	if p.ShowValue {
		valueWidth = 9 // "  100.00"
	}

	barWidth := p.Width - labelWidth - valueWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Score / 100)
	filled = max(0, min(filled, barWidth))
	empty := barWidth - filled

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))

	if p.ShowValue {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %6.2f", p.Score))
	}
	return result
}
