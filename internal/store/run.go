package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/abhisek/quizlens/internal/logger"
)

// RunRepo stores analysis runs and their topic snapshots.
type RunRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var runColumns = []string{
	"id", "kind", "sequence", "created_at", "historical_url", "submission_url", "threshold",
	"attempts", "topics", "overall_accuracy", "avg_speed", "avg_score",
	"best_topic", "hardest_topic", "defaulted", "suggestions",
}

// Save inserts run and its topic snapshots in one transaction. A missing
// ID or CreatedAt is filled in; Sequence is always assigned.
func (r *RunRepo) Save(ctx context.Context, run *Run, topics []TopicSnapshot) error {
	log := logger.FromContext(ctx).WithPrefix("run_repo")

	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	run.Sequence = seq
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sqlBuilder.Insert("runs").Columns(runColumns...).Values(
		run.ID, run.Kind, run.Sequence, formatTime(run.CreatedAt), run.HistoricalURL, run.SubmissionURL, run.Threshold,
		run.Attempts, run.Topics, run.OverallAccuracy, run.AvgSpeed, run.AvgScore,
		run.BestTopic, run.HardestTopic, run.Defaulted, run.Suggestions,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	if err := insertSnapshots(ctx, tx, run.ID, topics); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Debug("saved run id=%s topics=%d", run.ID, len(topics))
	return nil
}

// List returns runs newest first.
func (r *RunRepo) List(ctx context.Context, opts QueryOpts) ([]Run, error) {
	q := sqlBuilder.Select(runColumns...).From("runs").OrderBy("sequence DESC")
	q = applySequenceOpts(q, opts, "created_at")

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns the run whose ID starts with idPrefix, with its topic
// snapshots. An ambiguous prefix is an error.
func (r *RunRepo) Get(ctx context.Context, idPrefix string) (*Run, []TopicSnapshot, error) {
	if idPrefix == "" {
		return nil, nil, ErrNotFound
	}
	query, args, err := sqlBuilder.Select(runColumns...).From("runs").
		Where(squirrel.Like{"id": idPrefix + "%"}).
		Limit(2).
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("get run: %w", err)
	}
	var found []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, nil, err
		}
		found = append(found, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	switch len(found) {
	case 0:
		return nil, nil, ErrNotFound
	case 1:
	default:
		return nil, nil, fmt.Errorf("run id prefix %q is ambiguous", idPrefix)
	}

	run := found[0]
	topics, err := snapshotsForRun(ctx, r.db, run.ID)
	if err != nil {
		return nil, nil, err
	}
	return &run, topics, nil
}

// Latest returns the most recent run, or ErrNotFound if none exist.
func (r *RunRepo) Latest(ctx context.Context) (*Run, []TopicSnapshot, error) {
	runs, err := r.List(ctx, QueryOpts{Limit: 1})
	if err != nil {
		return nil, nil, err
	}
	if len(runs) == 0 {
		return nil, nil, ErrNotFound
	}
	return r.Get(ctx, runs[0].ID)
}

// Prune deletes all but the keep most recent runs and returns how many
// were removed. Snapshots go with their run.
func (r *RunRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	var threshold int64
	err := r.db.QueryRowContext(ctx,
		`SELECT sequence FROM runs ORDER BY sequence DESC LIMIT 1 OFFSET ?`, keep,
	).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil // fewer than keep runs exist
	}
	if err != nil {
		return 0, fmt.Errorf("query runs for prune: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE sequence <= ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (Run, error) {
	var run Run
	var created string
	err := s.Scan(
		&run.ID, &run.Kind, &run.Sequence, &created, &run.HistoricalURL, &run.SubmissionURL, &run.Threshold,
		&run.Attempts, &run.Topics, &run.OverallAccuracy, &run.AvgSpeed, &run.AvgScore,
		&run.BestTopic, &run.HardestTopic, &run.Defaulted, &run.Suggestions,
	)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.CreatedAt = parseTime(created)
	return run, nil
}

// applySequenceOpts adds the shared QueryOpts filters; tsColumn names the
// timestamp column for From and To.
func applySequenceOpts(q squirrel.SelectBuilder, opts QueryOpts, tsColumn string) squirrel.SelectBuilder {
	if opts.After > 0 {
		q = q.Where(squirrel.Gt{"sequence": opts.After})
	}
	if opts.Before > 0 {
		q = q.Where(squirrel.Lt{"sequence": opts.Before})
	}
	if !opts.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{tsColumn: formatTime(opts.From)})
	}
	if !opts.To.IsZero() {
		q = q.Where(squirrel.LtOrEq{tsColumn: formatTime(opts.To)})
	}
	if opts.Limit > 0 {
		q = q.Limit(uint64(opts.Limit))
	}
	return q
}
