package report

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/abhisek/quizlens/internal/analysis"
	"github.com/abhisek/quizlens/internal/clean"
)

// PlainTable renders summaries as an unstyled, column-aligned table. It is
// what the suggestion prompt embeds, so it must never carry escape codes.
func PlainTable(summaries []analysis.TopicSummary) string {
	if len(summaries) == 0 {
		return "(none)\n"
	}
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "topic\tattempts\tavg_score\tavg_accuracy\tavg_duration")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%s\n",
			s.Topic, s.Attempts, s.AvgScore, s.AvgAccuracy, clean.FormatDuration(s.AvgQuizDuration))
	}
	tw.Flush()
	return b.String()
}
