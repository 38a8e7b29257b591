// Package pipeline runs fetch, normalize, clean, merge and aggregate for a
// historical data set and an optional latest submission.
package pipeline

import (
	"context"
	"fmt"

	"github.com/abhisek/quizlens/internal/analysis"
	"github.com/abhisek/quizlens/internal/clean"
	"github.com/abhisek/quizlens/internal/fetch"
	"github.com/abhisek/quizlens/internal/logger"
	"github.com/abhisek/quizlens/internal/report"
	"github.com/abhisek/quizlens/internal/table"
)

// Options selects the endpoints and the weak/strong threshold.
type Options struct {
	HistoricalURL string
	// SubmissionURL is optional; empty skips the submission section.
	SubmissionURL string
	Threshold     float64
}

// Result is everything a report is rendered from.
type Result struct {
	Options Options

	Rows      []clean.Row
	Summaries []analysis.TopicSummary
	Weak      []analysis.TopicSummary
	Strong    []analysis.TopicSummary
	Overview  analysis.Overview

	// Submission is nil when no submission was requested or it could not
	// be loaded.
	Submission []analysis.SubmissionComparison

	// HistoricalMissing is set when the historical payload could not be
	// fetched; the aggregates are then empty.
	HistoricalMissing bool
}

// Pipeline loads and aggregates quiz data.
type Pipeline struct {
	client *fetch.Client
	opts   Options
}

// New returns a Pipeline fetching through client.
func New(client *fetch.Client, opts Options) *Pipeline {
	return &Pipeline{client: client, opts: opts}
}

// Run executes the pipeline. Fetch failures degrade to empty data; only a
// historical merge failure is returned as an error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	log := logger.FromContext(ctx).WithPrefix("pipeline")

	res := &Result{Options: p.opts}

	raw := p.client.LoadOrNil(ctx, p.opts.HistoricalURL)
	res.HistoricalMissing = raw == nil

	rows, err := Rows(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("historical data: %w", err)
	}
	res.Rows = rows
	res.Summaries = analysis.Summarize(rows)
	res.Weak, res.Strong = report.Partition(res.Summaries, p.opts.Threshold)
	res.Overview = analysis.Overall(rows, res.Summaries)
	log.Info("aggregated %d attempts into %d topics", len(rows), len(res.Summaries))

	if p.opts.SubmissionURL != "" {
		sub := p.client.LoadOrNil(ctx, p.opts.SubmissionURL)
		if sub != nil {
			subRows, err := Rows(ctx, sub)
			if err != nil {
				log.Warn("skipping submission: %v", err)
			} else {
				res.Submission = analysis.CompareSubmission(subRows, res.Summaries)
			}
		}
	}
	return res, nil
}

// Rows normalizes, cleans and merges one raw payload. A nil payload yields
// no rows.
func Rows(ctx context.Context, raw any) ([]clean.Row, error) {
	attempts, quizzes := table.Normalize(raw)
	ca, cq := clean.Clean(attempts, quizzes)
	rows, err := clean.Merge(ca, cq)
	if err != nil {
		return nil, err
	}
	logDefaulted(ctx, rows)
	return rows, nil
}

func logDefaulted(ctx context.Context, rows []clean.Row) {
	log := logger.FromContext(ctx).WithPrefix("clean")
	total := 0
	for i, r := range rows {
		fields := append(r.Attempt.Defaulted(), r.Quiz.Defaulted()...)
		if len(fields) == 0 {
			continue
		}
		total += len(fields)
		log.Debug("row %d: unparseable %v treated as 0", i, fields)
	}
	if total > 0 {
		log.Warn("%d unparseable field(s) across %d rows were treated as 0", total, len(rows))
	}
}
