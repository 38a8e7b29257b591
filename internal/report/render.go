package report

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/quizlens/internal/analysis"
	"github.com/abhisek/quizlens/internal/clean"
	"github.com/abhisek/quizlens/internal/ui/theme"
)

// RuleWidth is the width of section rules and banners.
const RuleWidth = 60

// Renderer writes report sections to w. Write errors are not reported;
// callers own w and check it themselves.
type Renderer struct {
	w io.Writer
}

// NewRenderer returns a Renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func (r *Renderer) println(a ...any) {
	fmt.Fprintln(r.w, a...)
}

func (r *Renderer) printf(format string, a ...any) {
	fmt.Fprintf(r.w, format, a...)
}

// Banner writes title centred in a rule of '=' with a full rule above it.
func (r *Renderer) Banner(title string) {
	r.println()
	r.println(theme.Subtitle.Render(strings.Repeat("=", RuleWidth)))
	r.println(theme.Title.Render(center(" "+title+" ", RuleWidth, '=')))
}

// TopicSummary writes the weak and strong topic blocks.
func (r *Renderer) TopicSummary(weak, strong []analysis.TopicSummary) {
	r.println()
	r.println(theme.Title.Render("📋 Topic Performance Summary:"))
	r.topicBlock(theme.Weak.Render("______Weak Topics______"), weak, "No weak topics.")
	r.println()
	r.topicBlock(theme.Strong.Render("______Strong Topics______"), strong, "No strong topics.")
}

func (r *Renderer) topicBlock(heading string, topics []analysis.TopicSummary, empty string) {
	r.println(heading)
	if len(topics) == 0 {
		r.println(theme.Hint.Render("   " + empty))
		return
	}
	for _, s := range topics {
		r.println()
		r.println(theme.Label.Render("📊 Topic: " + s.Topic))
		r.printf("   🔢 Attempts: %d\n", s.Attempts)
		r.printf("   🎯 Average Score: %.2f\n", s.AvgScore)
	}
}

// BestTopic writes the best-topic block, or nothing if ok is false.
func (r *Renderer) BestTopic(best analysis.TopicSummary, ok bool) {
	if !ok {
		return
	}
	r.println()
	r.println(theme.Strong.Render("🏆 Best Performing Topic: " + best.Topic))
	r.printf("   Average Score: %.2f\n", best.AvgScore)
	r.printf("   Attempts: %d\n", best.Attempts)
}

// Table writes summaries as a bordered table with weak rows highlighted.
func (r *Renderer) Table(summaries []analysis.TopicSummary, threshold float64) {
	if len(summaries) == 0 {
		return
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Topic,
			fmt.Sprintf("%d", s.Attempts),
			fmt.Sprintf("%.2f", s.AvgScore),
			fmt.Sprintf("%.2f", s.MaxScore),
			fmt.Sprintf("%.2f", s.MinScore),
			fmt.Sprintf("%.2f", s.AvgAccuracy),
			clean.FormatDuration(s.AvgQuizDuration),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("Topic", "Attempts", "Avg", "High", "Low", "Accuracy", "Duration").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return base.Inherit(theme.Label)
			case row >= 0 && row < len(summaries) && summaries[row].AvgScore < threshold:
				return base.Foreground(theme.Error)
			default:
				return base.Foreground(theme.Text)
			}
		})
	r.println(t.String())
}

// Detailed writes the per-topic breakdown.
func (r *Renderer) Detailed(summaries []analysis.TopicSummary) {
	r.Banner("Detailed Topic Performance Analysis")
	for _, s := range summaries {
		r.println()
		r.println(theme.Label.Render("📚 Topic: " + s.Topic))
		r.printf("  ➤ Average Score: %.2f (High: %.2f, Low: %.2f)\n", s.AvgScore, s.MaxScore, s.MinScore)
		r.printf("  ➤ Accuracy: %.2f%%\n", s.AvgAccuracy)
		r.printf("  ➤ Correct Answers: %.2f\n", s.AvgCorrectAnswers)
		r.printf("  ➤ Negative Mark Impact: %.2f\n", s.AvgNegativeMarks)
		r.printf("  ➤ Average Question Value: %.2f points\n", s.AvgCorrectMarks)
		r.printf("  ➤ Typical Duration: %.2f minutes\n", s.AvgQuizDuration/60)
		if s.Defaulted > 0 {
			r.println(theme.Hint.Render(fmt.Sprintf("  ⚠ %d field(s) defaulted to 0", s.Defaulted)))
		}
		r.println(theme.Subtitle.Render(strings.Repeat("-", RuleWidth)))
	}
}

// KPIs writes the headline indicators.
func (r *Renderer) KPIs(ov analysis.Overview) {
	r.Banner("Key Performance Indicators")
	r.printf("🏆 Overall Accuracy: %.2f%%\n", ov.OverallAccuracy)
	r.printf("🚀 Average Speed: %.2f\n", ov.AvgSpeed)
	r.printf("💡 Best Performing Topic: %s\n", orDash(ov.BestTopic))
	r.printf("🔧 Most Challenging Topic: %s\n", orDash(ov.HardestTopic))
	if ov.Defaulted > 0 {
		r.println(theme.Hint.Render(fmt.Sprintf("⚠ %d unparseable field(s) were treated as 0", ov.Defaulted)))
	}
	r.println(theme.Subtitle.Render(strings.Repeat("=", RuleWidth)))
}

// Submission writes the latest-submission comparison. Nothing is written
// for an empty comparison.
func (r *Renderer) Submission(cmp []analysis.SubmissionComparison) {
	if len(cmp) == 0 {
		return
	}
	r.println()
	r.println(theme.Title.Render("📝 Latest Submission:"))
	for _, c := range cmp {
		r.println()
		r.println(theme.Label.Render("📊 Topic: " + orDash(c.Topic)))
		r.printf("   🎯 Score: %.2f\n", c.Score)
		r.printf("   ✅ Accuracy: %.2f%%\n", c.Accuracy)
		if !c.HasHistory {
			r.println(theme.Hint.Render("   No earlier attempts on this topic."))
			continue
		}
		delta := fmt.Sprintf("%+.2f", c.Delta)
		style := theme.Strong
		if c.Delta < 0 {
			style = theme.Weak
		}
		r.printf("   📈 vs. topic average %.2f: %s\n", c.HistoricalAvg, style.Render(delta))
	}
}

// Suggestions writes the improvement suggestions block.
func (r *Renderer) Suggestions(text string) {
	r.println()
	r.println(theme.Title.Render("📋 Actionable Improvement Suggestions:"))
	text = strings.TrimSpace(text)
	if text == "" {
		r.println(theme.Hint.Render("No suggestions available."))
		return
	}
	r.println(text)
}

// Warn writes a one-line, non-fatal notice.
func (r *Renderer) Warn(msg string) {
	r.println(theme.Highlight.Render("⚠ " + msg))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// center pads s on both sides with fill to width, the extra cell going to
// the right.
func center(s string, width int, fill rune) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	right := width - n - left
	return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), right)
}
