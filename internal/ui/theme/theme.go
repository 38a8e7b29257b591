package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Viridis is a perceptually ordered ramp, low to high.
var Viridis = []color.Color{
	lipgloss.Color("#440154"),
	lipgloss.Color("#482878"),
	lipgloss.Color("#3E4A89"),
	lipgloss.Color("#31688E"),
	lipgloss.Color("#26828E"),
	lipgloss.Color("#1F9E89"),
	lipgloss.Color("#35B779"),
	lipgloss.Color("#6DCD59"),
	lipgloss.Color("#B4DE2C"),
	lipgloss.Color("#FDE725"),
}

// CoolWarm is a diverging ramp used for grouped metric bars.
var CoolWarm = []color.Color{
	lipgloss.Color("#3B4CC0"),
	lipgloss.Color("#DDDDDD"),
	lipgloss.Color("#B40426"),
}

// Ramp picks the colour at fraction t (0..1) along palette.
func Ramp(palette []color.Color, t float64) color.Color {
	if len(palette) == 0 {
		return Text
	}
	if t <= 0 {
		return palette[0]
	}
	if t >= 1 {
		return palette[len(palette)-1]
	}
	return palette[int(t*float64(len(palette)-1)+0.5)]
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// Report sections
var (
	Weak = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Strong = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Highlight = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)
