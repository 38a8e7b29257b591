// Package layout frames the topic browser: a header carrying the weak and
// strong split, a footer of key hints and the content between them.
package layout

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizlens/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 16

	// CompactWidth is the width below which the header counts drop their
	// words and footer hints sit closer together.
	CompactWidth = 100
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

var keyStyle = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
}

// innerWidth is the text width left inside a bar.
func innerWidth(width int) int {
	return max(width-4, 0)
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage centres a resize request in the terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small\n\nResize to at least %dx%d\n(now %dx%d)", MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Body.Align(lipgloss.Center).Render(msg))
}

// Split renders the weak and strong topic counts.
func Split(weak, strong int, compact bool) string {
	if compact {
		return theme.Weak.Render(fmt.Sprintf("▼%d", weak)) + " " + theme.Strong.Render(fmt.Sprintf("▲%d", strong))
	}
	return theme.Weak.Render(fmt.Sprintf("▼ %d weak", weak)) + "   " + theme.Strong.Render(fmt.Sprintf("▲ %d strong", strong))
}

// ShareBar draws the weak share of all topics in red and the rest in green,
// width cells wide. Any non-zero side keeps at least one cell.
func ShareBar(weak, strong, width int) string {
	if width <= 0 {
		return ""
	}
	total := weak + strong
	if total == 0 {
		return theme.Subtitle.Render(strings.Repeat("─", width))
	}
	w := int(math.Round(float64(weak) / float64(total) * float64(width)))
	if weak > 0 && w == 0 {
		w = 1
	}
	if strong > 0 && w == width && width > 1 {
		w = width - 1
	}
	return theme.Weak.Render(strings.Repeat("━", w)) + theme.Strong.Render(strings.Repeat("━", width-w))
}

// RenderHeader renders the title with the weak and strong counts on the
// right and the share bar beneath.
func RenderHeader(title string, weak, strong int, width int) string {
	inner := innerWidth(width)
	left := theme.Title.Render("quizlens") + theme.Subtitle.Render(" · ") + theme.Body.Render(title)
	right := Split(weak, strong, width < CompactWidth)
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)

	top := left + strings.Repeat(" ", gap) + right
	return bar(width).Render(top + "\n" + ShareBar(weak, strong, inner))
}

// RenderFooter renders key hints in order. Hints that no longer fit are
// dropped and replaced by an ellipsis.
func RenderFooter(hints []KeyHint, width int) string {
	inner := innerWidth(width)
	sep := "   "
	if width < CompactWidth {
		sep = "  "
	}

	var line string
	for i, h := range hints {
		part := keyStyle.Render(h.Key) + " " + theme.Subtitle.Render(h.Description)
		next := part
		if i > 0 {
			next = line + sep + part
		}
		if lipgloss.Width(next) > inner {
			if line != "" {
				line += sep
			}
			line += theme.Subtitle.Render("…")
			break
		}
		line = next
	}
	return bar(width).Render(line)
}

// RenderFrame stacks header, content and footer; the content is clipped or
// padded to the height left between them.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	middle := lipgloss.NewStyle().
		Width(width).
		Height(body).
		MaxHeight(body).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, middle, footer)
}
