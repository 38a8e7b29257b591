package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Timestamps are TEXT in timeLayout rather than field.TypeTime so that
// squirrel range filters compare them lexically.
var (
	// RunsColumns holds the columns for the "runs" table.
	RunsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString, Default: ""},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeString},
		{Name: "historical_url", Type: field.TypeString},
		{Name: "submission_url", Type: field.TypeString, Default: ""},
		{Name: "threshold", Type: field.TypeFloat64},
		{Name: "attempts", Type: field.TypeInt},
		{Name: "topics", Type: field.TypeInt},
		{Name: "overall_accuracy", Type: field.TypeFloat64},
		{Name: "avg_speed", Type: field.TypeFloat64},
		{Name: "avg_score", Type: field.TypeFloat64},
		{Name: "best_topic", Type: field.TypeString, Default: ""},
		{Name: "hardest_topic", Type: field.TypeString, Default: ""},
		{Name: "defaulted", Type: field.TypeInt, Default: 0},
		{Name: "suggestions", Type: field.TypeString, Default: ""},
	}
	// RunsTable holds the schema information for the "runs" table.
	RunsTable = &schema.Table{
		Name:       "runs",
		Columns:    RunsColumns,
		PrimaryKey: []*schema.Column{RunsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "run_created_at", Columns: []*schema.Column{RunsColumns[3]}},
		},
	}

	// TopicSnapshotsColumns holds the columns for the "topic_snapshots" table.
	TopicSnapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "topic", Type: field.TypeString},
		{Name: "attempts", Type: field.TypeInt},
		{Name: "avg_score", Type: field.TypeFloat64},
		{Name: "max_score", Type: field.TypeFloat64},
		{Name: "min_score", Type: field.TypeFloat64},
		{Name: "avg_accuracy", Type: field.TypeFloat64},
		{Name: "avg_quiz_duration", Type: field.TypeFloat64},
		{Name: "weak", Type: field.TypeBool},
		{Name: "run_id", Type: field.TypeString},
	}
	// TopicSnapshotsTable holds the schema information for the "topic_snapshots" table.
	TopicSnapshotsTable = &schema.Table{
		Name:       "topic_snapshots",
		Columns:    TopicSnapshotsColumns,
		PrimaryKey: []*schema.Column{TopicSnapshotsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "topic_snapshots_runs_topics",
				Columns:    []*schema.Column{TopicSnapshotsColumns[9]},
				RefColumns: []*schema.Column{RunsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "topicsnapshot_topic", Columns: []*schema.Column{TopicSnapshotsColumns[1]}},
			{Name: "topicsnapshot_run_id", Columns: []*schema.Column{TopicSnapshotsColumns[9]}},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeString},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Default: ""},
		{Name: "response_body", Type: field.TypeString, Default: ""},
		{Name: "cost_usd", Type: field.TypeFloat64, Default: 0},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{LlmRequestEventsColumns[2]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LlmRequestEventsColumns[5]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{LlmRequestEventsColumns[9]}},
		},
	}

	// GlobalSequenceColumns holds the columns for the "global_sequence" table.
	GlobalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	// GlobalSequenceTable holds the single counter row behind sequenceCounter.
	GlobalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    GlobalSequenceColumns,
		PrimaryKey: []*schema.Column{GlobalSequenceColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		RunsTable,
		TopicSnapshotsTable,
		LlmRequestEventsTable,
		GlobalSequenceTable,
	}
)

func init() {
	TopicSnapshotsTable.ForeignKeys[0].RefTable = RunsTable
}

// migrate creates missing tables and columns through ent's Atlas engine.
// It only appends; columns and indexes are never dropped.
func migrate(ctx context.Context, db *sql.DB) error {
	m, err := schema.NewMigrate(entsql.OpenDB(dialect.SQLite, db))
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
