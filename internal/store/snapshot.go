package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func insertSnapshots(ctx context.Context, db execer, runID string, topics []TopicSnapshot) error {
	if len(topics) == 0 {
		return nil
	}
	q := sqlBuilder.Insert("topic_snapshots").Columns(
		"run_id", "topic", "attempts", "avg_score", "max_score", "min_score",
		"avg_accuracy", "avg_quiz_duration", "weak",
	)
	for _, t := range topics {
		q = q.Values(runID, t.Topic, t.Attempts, t.AvgScore, t.MaxScore, t.MinScore,
			t.AvgAccuracy, t.AvgQuizDuration, t.Weak)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build snapshot insert: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save topic snapshots: %w", err)
	}
	return nil
}

func selectSnapshots() squirrel.SelectBuilder {
	return sqlBuilder.Select(
		"s.run_id", "r.created_at", "s.topic", "s.attempts", "s.avg_score", "s.max_score",
		"s.min_score", "s.avg_accuracy", "s.avg_quiz_duration", "s.weak",
	).From("topic_snapshots s").Join("runs r ON r.id = s.run_id")
}

func snapshotsForRun(ctx context.Context, db querier, runID string) ([]TopicSnapshot, error) {
	query, args, err := selectSnapshots().
		Where(squirrel.Eq{"s.run_id": runID}).
		OrderBy("s.topic").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return querySnapshots(ctx, db, query, args)
}

// TopicHistory returns topic's snapshots across runs, oldest first. A
// positive limit keeps only the most recent entries.
func (r *RunRepo) TopicHistory(ctx context.Context, topic string, limit int) ([]TopicSnapshot, error) {
	q := selectSnapshots().Where(squirrel.Eq{"s.topic": topic}).OrderBy("r.sequence DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	out, err := querySnapshots(ctx, r.db, query, args)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func querySnapshots(ctx context.Context, db querier, query string, args []any) ([]TopicSnapshot, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query topic snapshots: %w", err)
	}
	defer rows.Close()

	var out []TopicSnapshot
	for rows.Next() {
		var t TopicSnapshot
		var created string
		if err := rows.Scan(&t.RunID, &created, &t.Topic, &t.Attempts, &t.AvgScore, &t.MaxScore,
			&t.MinScore, &t.AvgAccuracy, &t.AvgQuizDuration, &t.Weak); err != nil {
			return nil, fmt.Errorf("scan topic snapshot: %w", err)
		}
		t.CreatedAt = parseTime(created)
		out = append(out, t)
	}
	return out, rows.Err()
}
