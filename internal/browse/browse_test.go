package browse

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizlens/internal/analysis"
)

func summaries() []analysis.TopicSummary {
	return []analysis.TopicSummary{
		{Topic: "Biology", Attempts: 2, AvgScore: 60, AvgAccuracy: 70},
		{Topic: "Chemistry", Attempts: 3, AvgScore: 45, AvgAccuracy: 80},
		{Topic: "Physics", Attempts: 1, AvgScore: 90, AvgAccuracy: 50},
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestNew_SortedByTopic(t *testing.T) {
	m := New(summaries(), 60)
	assert.Equal(t, []string{"Biology", "Chemistry", "Physics"}, m.Visible())
	assert.Equal(t, 1, m.weak)

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Biology", sel.Topic)
}

func TestFilter(t *testing.T) {
	m := update(t, New(summaries(), 60), keyPress('p'), keyPress('H'))
	assert.Equal(t, []string{"Physics"}, m.Visible())

	m = update(t, m, specialKey(tea.KeyEscape))
	assert.Len(t, m.Visible(), 3, "esc clears a non-empty filter")
}

func TestFilter_NoMatch(t *testing.T) {
	m := update(t, New(summaries(), 60), keyPress('z'))
	assert.Empty(t, m.Visible())
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestNavigation(t *testing.T) {
	m := update(t, New(summaries(), 60), specialKey(tea.KeyDown), specialKey(tea.KeyDown), specialKey(tea.KeyDown))
	sel, _ := m.Selected()
	assert.Equal(t, "Physics", sel.Topic, "selection stops at the last row")

	m = update(t, m, specialKey(tea.KeyUp))
	sel, _ = m.Selected()
	assert.Equal(t, "Chemistry", sel.Topic)
}

func TestSortCycle(t *testing.T) {
	m := update(t, New(summaries(), 60), specialKey(tea.KeyTab))
	assert.Equal(t, SortScoreAsc, m.sortBy)
	assert.Equal(t, []string{"Chemistry", "Biology", "Physics"}, m.Visible())

	m = update(t, m, specialKey(tea.KeyTab))
	assert.Equal(t, []string{"Physics", "Biology", "Chemistry"}, m.Visible())

	m = update(t, m, specialKey(tea.KeyTab))
	assert.Equal(t, SortTopic, m.sortBy)
}

func TestEnterTogglesDetail(t *testing.T) {
	m := update(t, New(summaries(), 60), specialKey(tea.KeyEnter))
	assert.True(t, m.expanded)
	m = update(t, m, specialKey(tea.KeyEnter))
	assert.False(t, m.expanded)
}

func TestEscQuitsWithEmptyFilter(t *testing.T) {
	_, cmd := New(summaries(), 60).Update(specialKey(tea.KeyEscape))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestView(t *testing.T) {
	m := update(t, New(summaries(), 60), tea.WindowSizeMsg{Width: 100, Height: 30}, specialKey(tea.KeyEnter))
	v := m.View()
	assert.True(t, v.AltScreen)

	content := m.content()
	assert.Contains(t, content, "Chemistry")
	assert.Contains(t, content, "3 attempt(s)")
	assert.Contains(t, content, "Typical duration")
}

func TestView_Empty(t *testing.T) {
	m := New(nil, 60)
	assert.Contains(t, m.content(), "No topics to show")
}
