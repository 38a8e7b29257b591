package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/Masterminds/squirrel"
)

// sequenceCounter numbers runs and LLM events from one shared counter, so
// `runs list` and `llm list` can be read against each other in order.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(ctx context.Context, db *sql.DB) (*sequenceCounter, error) {
	query, args, err := sqlBuilder.Insert("global_sequence").
		Options("OR IGNORE").
		Columns("id", "next_val").
		Values(1, 1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build seed: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next returns the next sequence number. It must not be called while a
// transaction holds the store's only connection.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	query, args, err := sqlBuilder.Update("global_sequence").
		Set("next_val", squirrel.Expr("next_val + 1")).
		Where(squirrel.Eq{"id": 1}).
		Suffix("RETURNING next_val - 1").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build next: %w", err)
	}

	var seq int64
	if err := sc.db.QueryRowContext(ctx, query, args...).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
