package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the HTTP handler for the server.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/topics", s.handleTopics)
		r.Get("/overview", s.handleOverview)
		r.Get("/submission", s.handleSubmission)
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{id}", s.handleRun)
		r.Get("/topics/{topic}/history", s.handleTopicHistory)
	})
	return r
}
