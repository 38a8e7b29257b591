package pipeline

import (
	"context"
	"fmt"

	"github.com/abhisek/quizlens/internal/store"
)

// Run kinds.
const (
	KindAnalyze = "analyze"
	KindDetail  = "detail"
)

// Record converts res into a run row and its topic snapshots.
func Record(res *Result, kind, suggestions string) (*store.Run, []store.TopicSnapshot) {
	ov := res.Overview
	run := &store.Run{
		Kind:            kind,
		HistoricalURL:   res.Options.HistoricalURL,
		SubmissionURL:   res.Options.SubmissionURL,
		Threshold:       res.Options.Threshold,
		Attempts:        ov.Attempts,
		Topics:          ov.Topics,
		OverallAccuracy: ov.OverallAccuracy,
		AvgSpeed:        ov.AvgSpeed,
		AvgScore:        ov.AvgScore,
		BestTopic:       ov.BestTopic,
		HardestTopic:    ov.HardestTopic,
		Defaulted:       ov.Defaulted,
		Suggestions:     suggestions,
	}

	snaps := make([]store.TopicSnapshot, 0, len(res.Summaries))
	for _, s := range res.Summaries {
		snaps = append(snaps, store.TopicSnapshot{
			Topic:           s.Topic,
			Attempts:        s.Attempts,
			AvgScore:        s.AvgScore,
			MaxScore:        s.MaxScore,
			MinScore:        s.MinScore,
			AvgAccuracy:     s.AvgAccuracy,
			AvgQuizDuration: s.AvgQuizDuration,
			Weak:            s.AvgScore < res.Options.Threshold,
		})
	}
	return run, snaps
}

// Save records res with rec. A missing historical payload is not saved.
func Save(ctx context.Context, rec store.RunRecorder, res *Result, kind, suggestions string) (*store.Run, error) {
	if res.HistoricalMissing {
		return nil, nil
	}
	run, snaps := Record(res, kind, suggestions)
	if err := rec.Save(ctx, run, snaps); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	return run, nil
}
