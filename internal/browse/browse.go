// Package browse is a full-screen topic browser with a live filter.
package browse

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizlens/internal/analysis"
	"github.com/abhisek/quizlens/internal/clean"
	"github.com/abhisek/quizlens/internal/ui/components"
	"github.com/abhisek/quizlens/internal/ui/layout"
	"github.com/abhisek/quizlens/internal/ui/theme"
)

// SortMode orders the topic list.
type SortMode int

const (
	SortTopic SortMode = iota
	SortScoreAsc
	SortAccuracyAsc
	sortModes
)

func (m SortMode) String() string {
	switch m {
	case SortScoreAsc:
		return "score ↑"
	case SortAccuracyAsc:
		return "accuracy ↑"
	default:
		return "topic"
	}
}

// Model is the root Bubble Tea model for the browser.
type Model struct {
	summaries []analysis.TopicSummary
	threshold float64
	weak      int

	filter   components.FilterInput
	visible  []int // indexes into summaries
	selected int
	expanded bool
	sortBy   SortMode

	width  int
	height int
}

// New creates a browser over summaries.
func New(summaries []analysis.TopicSummary, threshold float64) Model {
	m := Model{
		summaries: summaries,
		threshold: threshold,
		filter:    components.NewFilterInput("type to filter topics", 64),
	}
	for _, s := range summaries {
		if s.AvgScore < threshold {
			m.weak++
		}
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.filter.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.filter.Value() != "" {
				m.filter.Reset()
				m.refresh()
				return m, nil
			}
			return m, tea.Quit
		case "up":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down":
			if m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil
		case "enter":
			m.expanded = !m.expanded
			return m, nil
		case "tab":
			m.sortBy = (m.sortBy + 1) % sortModes
			m.refresh()
			return m, nil
		}
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.selected = 0
		m.refresh()
	}
	return m, cmd
}

// refresh recomputes the visible, sorted topic indexes.
func (m *Model) refresh() {
	m.visible = make([]int, 0, len(m.summaries))
	for i, s := range m.summaries {
		if m.filter.Matches(s.Topic) {
			m.visible = append(m.visible, i)
		}
	}
	sort.SliceStable(m.visible, func(a, b int) bool {
		sa, sb := m.summaries[m.visible[a]], m.summaries[m.visible[b]]
		switch m.sortBy {
		case SortScoreAsc:
			return sa.AvgScore < sb.AvgScore
		case SortAccuracyAsc:
			return sa.AvgAccuracy < sb.AvgAccuracy
		default:
			return sa.Topic < sb.Topic
		}
	})
	if m.selected >= len(m.visible) {
		m.selected = max(0, len(m.visible)-1)
	}
}

// Selected returns the highlighted topic, if any.
func (m Model) Selected() (analysis.TopicSummary, bool) {
	if len(m.visible) == 0 {
		return analysis.TopicSummary{}, false
	}
	return m.summaries[m.visible[m.selected]], true
}

// Visible returns the topics currently shown, in display order.
func (m Model) Visible() []string {
	out := make([]string, 0, len(m.visible))
	for _, i := range m.visible {
		out = append(out, m.summaries[i].Topic)
	}
	return out
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader("Topics", m.weak, len(m.summaries)-m.weak, m.width)
	footer := layout.RenderFooter([]layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Details"},
		{Key: "Tab", Description: "Sort: " + m.sortBy.String()},
		{Key: "Esc", Description: "Clear/Quit"},
	}, m.width)

	v.SetContent(layout.RenderFrame(header, m.content(), footer, m.width, m.height))
	return v
}

func (m Model) content() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.summaries) == 0 {
		b.WriteString(theme.Hint.Render("  No topics to show. Was the historical endpoint reachable?"))
		return b.String()
	}
	if len(m.visible) == 0 {
		b.WriteString(theme.Hint.Render("  No topics match the filter."))
		return b.String()
	}

	barWidth := m.width / 3
	nameWidth := 0
	for _, i := range m.visible {
		nameWidth = max(nameWidth, lipgloss.Width(m.summaries[i].Topic))
	}

	for row, i := range m.visible {
		s := m.summaries[i]
		prefix := "  "
		style := theme.Body
		if row == m.selected {
			prefix = "> "
			style = theme.Selected
		}

		bar := components.NewScoreBar("", s.AvgScore, true, barWidth)
		bar.Fill = theme.Success
		if s.AvgScore < m.threshold {
			bar.Fill = theme.Error
		}

		name := s.Topic + strings.Repeat(" ", nameWidth-lipgloss.Width(s.Topic))
		b.WriteString(style.Render(prefix + name))
		b.WriteString("  ")
		b.WriteString(bar.View())
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  %d attempt(s)", s.Attempts)))
		b.WriteString("\n")

		if row == m.selected && m.expanded {
			b.WriteString(m.detail(s))
		}
	}
	return b.String()
}

func (m Model) detail(s analysis.TopicSummary) string {
	lines := []string{
		fmt.Sprintf("High %.2f  Low %.2f", s.MaxScore, s.MinScore),
		fmt.Sprintf("Accuracy %.2f%%  Correct answers %.2f", s.AvgAccuracy, s.AvgCorrectAnswers),
		fmt.Sprintf("Negative marks %.2f  Question value %.2f", s.AvgNegativeMarks, s.AvgCorrectMarks),
		"Typical duration " + clean.FormatDuration(s.AvgQuizDuration),
	}
	if s.Defaulted > 0 {
		lines = append(lines, fmt.Sprintf("%d field(s) defaulted to 0", s.Defaulted))
	}
	return theme.Card.Render(strings.Join(lines, "\n")) + "\n"
}

// Run starts the browser and blocks until it exits.
func Run(summaries []analysis.TopicSummary, threshold float64) error {
	_, err := tea.NewProgram(New(summaries, threshold)).Run()
	return err
}
