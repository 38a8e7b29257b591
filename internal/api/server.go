// Package api serves topic aggregates and recorded runs as JSON.
package api

import (
	"context"

	"github.com/abhisek/quizlens/internal/pipeline"
	"github.com/abhisek/quizlens/internal/store"
)

// Analyzer produces a fresh pipeline result.
type Analyzer interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// RunSource reads recorded runs.
type RunSource interface {
	List(ctx context.Context, opts store.QueryOpts) ([]store.Run, error)
	Get(ctx context.Context, idPrefix string) (*store.Run, []store.TopicSnapshot, error)
	TopicHistory(ctx context.Context, topic string, limit int) ([]store.TopicSnapshot, error)
}

// Server holds the handler dependencies. Runs may be nil when persistence
// is disabled; the run endpoints then answer 404.
type Server struct {
	Analyzer Analyzer
	Runs     RunSource
}

// NewServer returns a Server. runs may be nil.
func NewServer(analyzer Analyzer, runs RunSource) *Server {
	return &Server{Analyzer: analyzer, Runs: runs}
}
