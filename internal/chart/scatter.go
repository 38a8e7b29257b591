package chart

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizlens/internal/ui/theme"
)

// Point is one scatter mark. Hue picks the colour along the viridis ramp
// and Size picks the glyph; both are scaled over the plotted points.
type Point struct {
	X, Y float64
	Hue  float64
	Size float64
}

// sizeGlyphs run from smallest to largest.
var sizeGlyphs = []string{"·", "∘", "○", "●"}

// Scatter plots points on a width×height grid with labelled axes. Later
// points overwrite earlier ones sharing a cell.
func Scatter(title, xLabel, yLabel string, points []Point, width, height int) (string, error) {
	if len(points) == 0 {
		return "", ErrNoData
	}
	width, height = max(width, 2), max(height, 2)

	xs, ys, hues, sizes := span{}, span{}, span{}, span{}
	for i, p := range points {
		xs.add(p.X, i == 0)
		ys.add(p.Y, i == 0)
		hues.add(p.Hue, i == 0)
		sizes.add(p.Size, i == 0)
	}

	grid := make([][]string, height)
	for r := range grid {
		grid[r] = make([]string, width)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}
	for _, p := range points {
		col := int(xs.frac(p.X)*float64(width-1) + 0.5)
		row := height - 1 - int(ys.frac(p.Y)*float64(height-1)+0.5)
		glyph := sizeGlyphs[int(sizes.frac(p.Size)*float64(len(sizeGlyphs)-1)+0.5)]
		style := lipgloss.NewStyle().Foreground(theme.Ramp(theme.Viridis, hues.frac(p.Hue)))
		grid[row][col] = style.Render(glyph)
	}

	gutter := 8
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(title))
	sb.WriteString("\n")
	sb.WriteString(theme.Subtitle.Render(fmt.Sprintf("%*s", gutter, yLabel)))
	sb.WriteString("\n")
	for r, cells := range grid {
		label := ""
		switch r {
		case 0:
			label = fmt.Sprintf("%.1f", ys.hi)
		case height - 1:
			label = fmt.Sprintf("%.1f", ys.lo)
		}
		sb.WriteString(theme.Subtitle.Render(fmt.Sprintf("%*s", gutter-1, label)))
		sb.WriteString("│")
		sb.WriteString(strings.Join(cells, ""))
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat(" ", gutter-1))
	sb.WriteString("└")
	sb.WriteString(strings.Repeat("─", width))
	sb.WriteString("\n")

	lo, hi := fmt.Sprintf("%.1f", xs.lo), fmt.Sprintf("%.1f", xs.hi)
	pad := max(width-len(lo)-len(hi), 1)
	sb.WriteString(strings.Repeat(" ", gutter))
	sb.WriteString(theme.Subtitle.Render(lo + strings.Repeat(" ", pad) + hi))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", gutter))
	sb.WriteString(theme.Hint.Render(xLabel))
	sb.WriteString("\n")
	return sb.String(), nil
}

type span struct{ lo, hi float64 }

func (s *span) add(v float64, first bool) {
	if first {
		s.lo, s.hi = v, v
		return
	}
	s.lo, s.hi = min(s.lo, v), max(s.hi, v)
}

// frac maps v into [0, 1]; a degenerate span maps to the midpoint.
func (s span) frac(v float64) float64 {
	if s.hi == s.lo {
		return 0.5
	}
	return (v - s.lo) / (s.hi - s.lo)
}
