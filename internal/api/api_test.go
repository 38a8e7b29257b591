package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizlens/internal/analysis"
	"github.com/abhisek/quizlens/internal/pipeline"
	"github.com/abhisek/quizlens/internal/store"
)

type fakeAnalyzer struct {
	res *pipeline.Result
	err error
}

func (f fakeAnalyzer) Run(context.Context) (*pipeline.Result, error) { return f.res, f.err }

func sampleResult() *pipeline.Result {
	bio := analysis.TopicSummary{Topic: "Biology", Attempts: 2, AvgScore: 45}
	phy := analysis.TopicSummary{Topic: "Physics", Attempts: 1, AvgScore: 90}
	return &pipeline.Result{
		Options:   pipeline.Options{Threshold: 60},
		Summaries: []analysis.TopicSummary{bio, phy},
		Weak:      []analysis.TopicSummary{bio},
		Strong:    []analysis.TopicSummary{phy},
		Overview:  analysis.Overview{Attempts: 3, Topics: 2, BestTopic: "Physics", HardestTopic: "Biology"},
	}
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, NewServer(fakeAnalyzer{}, nil).Routes(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestTopics(t *testing.T) {
	rec := get(t, NewServer(fakeAnalyzer{res: sampleResult()}, nil).Routes(), "/api/topics")
	require.Equal(t, http.StatusOK, rec.Code)

	var body topicsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 60.0, body.Threshold)
	assert.Len(t, body.Topics, 2)
	assert.Equal(t, []string{"Biology"}, body.Weak)
	assert.Equal(t, []string{"Physics"}, body.Strong)
}

func TestTopics_EmptyIsArray(t *testing.T) {
	rec := get(t, NewServer(fakeAnalyzer{res: &pipeline.Result{}}, nil).Routes(), "/api/topics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"topics":[]`)
}

func TestTopics_AnalyzerError(t *testing.T) {
	rec := get(t, NewServer(fakeAnalyzer{err: errors.New("merge failed")}, nil).Routes(), "/api/topics")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "merge failed")
}

func TestOverview(t *testing.T) {
	rec := get(t, NewServer(fakeAnalyzer{res: sampleResult()}, nil).Routes(), "/api/overview")
	require.Equal(t, http.StatusOK, rec.Code)

	var ov analysis.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ov))
	assert.Equal(t, "Physics", ov.BestTopic)
	assert.Equal(t, 3, ov.Attempts)
}

func TestSubmission(t *testing.T) {
	srv := NewServer(fakeAnalyzer{res: sampleResult()}, nil).Routes()
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/submission").Code)

	res := sampleResult()
	res.Submission = []analysis.SubmissionComparison{{Topic: "Biology", Score: 70, HasHistory: true, HistoricalAvg: 45, Delta: 25}}
	rec := get(t, NewServer(fakeAnalyzer{res: res}, nil).Routes(), "/api/submission")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"delta":25`)
}

func TestRuns_Disabled(t *testing.T) {
	h := NewServer(fakeAnalyzer{}, nil).Routes()
	for _, path := range []string{"/api/runs", "/api/runs/abc", "/api/topics/Biology/history"} {
		assert.Equal(t, http.StatusNotFound, get(t, h, path).Code, path)
	}
}

func TestRuns(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	run, snaps := pipeline.Record(sampleResult(), pipeline.KindAnalyze, "")
	require.NoError(t, s.RunRepo().Save(ctx, run, snaps))

	h := NewServer(fakeAnalyzer{}, s.RunRepo()).Routes()

	rec := get(t, h, "/api/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []store.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)

	rec = get(t, h, "/api/runs/"+run.ID[:8])
	require.Equal(t, http.StatusOK, rec.Code)
	var detail runResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "analyze", detail.Run.Kind)
	assert.Len(t, detail.Topics, 2)

	rec = get(t, h, "/api/topics/Biology/history")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []store.TopicSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.True(t, history[0].Weak)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/runs/ffffffff").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/runs?limit=-1").Code)
}

func TestRuns_EmptyIsArray(t *testing.T) {
	s := openStore(t)
	rec := get(t, NewServer(fakeAnalyzer{}, s.RunRepo()).Routes(), "/api/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
