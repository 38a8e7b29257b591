// Package components holds small reusable terminal widgets.
package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizlens/internal/ui/theme"
)

// FilterInput wraps bubbles/textinput as a one-line, case-insensitive
// substring filter.
type FilterInput struct {
	Model textinput.Model
}

// NewFilterInput creates a focused filter input.
func NewFilterInput(placeholder string, maxLen int) FilterInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	if maxLen > 0 {
		ti.CharLimit = maxLen
	}
	ti.Focus()
	return FilterInput{Model: ti}
}

// Init returns the initial command.
func (f FilterInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (f FilterInput) Update(msg tea.Msg) (FilterInput, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the input.
func (f FilterInput) View() string {
	return lipgloss.NewStyle().Foreground(theme.Text).Render(f.Model.View())
}

// Value returns the current input value.
func (f FilterInput) Value() string {
	return f.Model.Value()
}

// Reset clears the input.
func (f *FilterInput) Reset() {
	f.Model.Reset()
}

// Matches reports whether s contains the filter text, ignoring case. An
// empty filter matches everything.
func (f FilterInput) Matches(s string) bool {
	q := strings.TrimSpace(f.Value())
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(q))
}
