package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/quizlens/internal/analysis"
	"github.com/abhisek/quizlens/internal/logger"
	"github.com/abhisek/quizlens/internal/store"
)

const defaultListLimit = 20

type topicsResponse struct {
	Threshold float64                 `json:"threshold"`
	Topics    []analysis.TopicSummary `json:"topics"`
	Weak      []string                `json:"weak"`
	Strong    []string                `json:"strong"`
}

type runResponse struct {
	Run    *store.Run            `json:"run"`
	Topics []store.TopicSnapshot `json:"topics"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	res, err := s.Analyzer.Run(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("analysis failed: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, topicsResponse{
		Threshold: res.Options.Threshold,
		Topics:    nonNil(res.Summaries),
		Weak:      topicNames(res.Weak),
		Strong:    topicNames(res.Strong),
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	res, err := s.Analyzer.Run(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("analysis failed: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res.Overview)
}

func (s *Server) handleSubmission(w http.ResponseWriter, r *http.Request) {
	res, err := s.Analyzer.Run(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("analysis failed: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if res.Submission == nil {
		writeError(w, http.StatusNotFound, "no submission available")
		return
	}
	writeJSON(w, http.StatusOK, res.Submission)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.Runs == nil {
		writeError(w, http.StatusNotFound, "persistence is disabled")
		return
	}
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	runs, err := s.Runs.List(r.Context(), store.QueryOpts{Limit: limit})
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to list runs: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.Runs == nil {
		writeError(w, http.StatusNotFound, "persistence is disabled")
		return
	}
	id := chi.URLParam(r, "id")
	run, topics, err := s.Runs.Get(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "run not found")
		return
	case err != nil:
		logger.FromContext(r.Context()).Warn("failed to load run %s: %v", id, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runResponse{Run: run, Topics: topics})
}

func (s *Server) handleTopicHistory(w http.ResponseWriter, r *http.Request) {
	if s.Runs == nil {
		writeError(w, http.StatusNotFound, "persistence is disabled")
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	topic := chi.URLParam(r, "topic")
	history, err := s.Runs.TopicHistory(r.Context(), topic, limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to load history for %q: %v", topic, err)
		writeError(w, http.StatusInternalServerError, "failed to load topic history")
		return
	}
	if history == nil {
		history = []store.TopicSnapshot{}
	}
	writeJSON(w, http.StatusOK, history)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"code": status, "message": msg},
	})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func topicNames(summaries []analysis.TopicSummary) []string {
	out := make([]string, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s.Topic)
	}
	return out
}

func nonNil(s []analysis.TopicSummary) []analysis.TopicSummary {
	if s == nil {
		return []analysis.TopicSummary{}
	}
	return s
}
