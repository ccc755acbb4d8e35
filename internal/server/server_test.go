package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SportsFeed/internal/domain"
	"SportsFeed/internal/entity"
	"SportsFeed/internal/logging"
)

type stubService struct {
	stored     []domain.ContentItem
	refreshErr error
	analyzed   []domain.ScoreItem
}

func (s *stubService) Stored(context.Context) []domain.ContentItem { return s.stored }

func (s *stubService) Refresh(context.Context) ([]domain.ContentItem, error) {
	return s.stored, s.refreshErr
}

func (s *stubService) Scores(context.Context) []domain.ScoreItem { return nil }

func (s *stubService) Analyze(_ context.Context, score domain.ScoreItem) string {
	s.analyzed = append(s.analyzed, score)
	return "Great match."
}

func (s *stubService) Report(context.Context) (domain.StoreStats, string) {
	return domain.StoreStats{Total: len(s.stored)}, "fine"
}

func setup() (*Server, *stubService) {
	svc := &stubService{stored: []domain.ContentItem{{ID: "a", Title: "First"}}}
	return New(svc, entity.NewResolver(nil), logging.Discard()), svc
}

func do(t *testing.T, srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := setup()
	rec := do(t, srv, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNewsAndRefresh(t *testing.T) {
	t.Parallel()

	srv, svc := setup()

	rec := do(t, srv, http.MethodGet, "/api/news", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []domain.ContentItem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	assert.Equal(t, "First", items[0].Title)

	svc.refreshErr = errors.New("disk full")
	rec = do(t, srv, http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/refresh", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestScoresEmptyIsArray(t *testing.T) {
	t.Parallel()

	srv, _ := setup()
	rec := do(t, srv, http.MethodGet, "/api/scores", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	srv, svc := setup()

	rec := do(t, srv, http.MethodPost, "/api/scores/analyze", `{"homeTeam":"Man City","awayTeam":"Arsenal","homeScore":3,"awayScore":1,"status":"FINISHED"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"analysis":"Great match."}`, rec.Body.String())
	require.Len(t, svc.analyzed, 1)
	assert.Equal(t, 3, svc.analyzed[0].HomeScore)

	rec = do(t, srv, http.MethodPost, "/api/scores/analyze", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/scores/analyze", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReport(t *testing.T) {
	t.Parallel()

	srv, _ := setup()
	rec := do(t, srv, http.MethodGet, "/api/report", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Stats  domain.StoreStats `json:"stats"`
		Report string            `json:"report"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 1, body.Stats.Total)
	assert.Equal(t, "fine", body.Report)
}

func TestResolveEntities(t *testing.T) {
	t.Parallel()

	srv, _ := setup()
	rec := do(t, srv, http.MethodGet, "/api/entities/resolve?text=Goal+%40Messi", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var segments []entity.Segment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&segments))
	require.Len(t, segments, 2)
	assert.Equal(t, "Goal ", segments[0].Text)
	require.NotNil(t, segments[1].Entity)
	assert.Equal(t, "Inter Miami", segments[1].Entity.Team)

	rec = do(t, srv, http.MethodGet, "/api/entities", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entities []domain.Entity
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&entities))
	assert.Len(t, entities, 4)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := setup()
	rec := do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
