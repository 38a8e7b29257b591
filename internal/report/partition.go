// Package report renders topic summaries as terminal text and as the plain
// tables embedded in the suggestion prompt.
package report

import (
	"github.com/abhisek/quizlens/internal/analysis"
)

// Partition splits summaries into weak (average score below threshold) and
// strong (at or above it). Input order is kept in both halves.
func Partition(summaries []analysis.TopicSummary, threshold float64) (weak, strong []analysis.TopicSummary) {
	weak = make([]analysis.TopicSummary, 0, len(summaries))
	strong = make([]analysis.TopicSummary, 0, len(summaries))
	for _, s := range summaries {
		if s.AvgScore < threshold {
			weak = append(weak, s)
		} else {
			strong = append(strong, s)
		}
	}
	return weak, strong
}
