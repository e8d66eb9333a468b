package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/dga.report/internal/db"
	"github.com/banshee-data/dga.report/internal/dga"
	"github.com/banshee-data/dga.report/internal/monitoring"
)

func setupTestServer(t *testing.T) (*Server, *db.DB) {
	t.Helper()
	database, err := db.NewDB(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewServer(database, dga.Thresholds{dga.Hydrogen: 100}), database
}

func seedRun(t *testing.T, database *db.DB) *db.Run {
	t.Helper()
	run := &db.Run{ID: "run-1", Source: "sample.csv", Period: "6M", MinPoints: 2}
	require.NoError(t, database.CreateRun(run))

	ts := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	series := []dga.SeriesPoint{
		{Timestamp: ts, Ref: 10, Value: 50},
		{Timestamp: ts.AddDate(0, 6, 0), Ref: 11, Value: 80},
		{Timestamp: ts.AddDate(1, 0, 0), Ref: 12, Value: 120},
	}
	require.NoError(t, database.RecordTrends(run.ID, []dga.TrendVerdict{
		{UnitID: "TX1", Gas: dga.Hydrogen, Direction: dga.Increasing,
			Confidence: dga.Some(0.02), Statistic: dga.Some(2.3), Slope: dga.Some(70), Series: series},
		{UnitID: "TX1", Gas: dga.Methane, Direction: dga.InsufficientData},
	}))
	require.NoError(t, database.RecordOutliers(run.ID, []dga.OutlierRecord{
		{UnitID: "TX1", Gas: dga.Hydrogen, Timestamp: ts.AddDate(1, 0, 0), Ref: dga.Some(12), Value: 120},
		{UnitID: "TX1", Gas: dga.Hydrogen, Timestamp: ts.AddDate(2, 0, 0), Ref: dga.Missing, Value: 140},
	}))
	return run
}

func serve(s *Server, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestListRuns(t *testing.T) {
	server, database := setupTestServer(t)

	w := serve(server, http.MethodGet, "/api/runs")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	seedRun(t, database)
	w = serve(server, http.MethodGet, "/api/runs?limit=5")
	require.Equal(t, http.StatusOK, w.Code)

	var runs []db.Run
	require.NoError(t, json.NewDecoder(w.Body).Decode(&runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, 2, runs[0].TrendCount)
	assert.Equal(t, 2, runs[0].OutlierCount)

	w = serve(server, http.MethodGet, "/api/runs?limit=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRun(t *testing.T) {
	server, database := setupTestServer(t)
	seedRun(t, database)

	w := serve(server, http.MethodGet, "/api/runs/run-1")
	require.Equal(t, http.StatusOK, w.Code)
	var run db.Run
	require.NoError(t, json.NewDecoder(w.Body).Decode(&run))
	assert.Equal(t, "sample.csv", run.Source)

	w = serve(server, http.MethodGet, "/api/runs/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "run not found")
}

func TestListTrends(t *testing.T) {
	server, database := setupTestServer(t)
	seedRun(t, database)

	w := serve(server, http.MethodGet, "/api/runs/run-1/trends")
	require.Equal(t, http.StatusOK, w.Code)

	var trends []map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&trends))
	require.Len(t, trends, 2)
	assert.Equal(t, "increasing", trends[0]["trend_direction"])
	assert.InDelta(t, 0.02, trends[0]["confidence"], 1e-12)
	assert.Len(t, trends[0]["supporting_series"], 3)

	assert.Equal(t, "insufficient_data", trends[1]["trend_direction"])
	assert.Nil(t, trends[1]["confidence"])
	assert.Equal(t, []any{}, trends[1]["supporting_series"])

	w = serve(server, http.MethodGet, "/api/runs/missing/trends")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOutliers(t *testing.T) {
	server, database := setupTestServer(t)
	seedRun(t, database)

	w := serve(server, http.MethodGet, "/api/runs/run-1/outliers")
	require.Equal(t, http.StatusOK, w.Code)

	var outliers []map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&outliers))
	require.Len(t, outliers, 2)
	assert.Equal(t, 12.0, outliers[0]["reference_value"])
	assert.Nil(t, outliers[1]["reference_value"])
	assert.Equal(t, 140.0, outliers[1]["concentration_value"])
	assert.Equal(t, "2022-01-01T00:00:00Z", outliers[1]["timestamp"])
}

func TestShowReport(t *testing.T) {
	server, database := setupTestServer(t)
	seedRun(t, database)

	w := serve(server, http.MethodGet, "/api/runs/run-1/report")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	body := w.Body.String()
	assert.Contains(t, body, "TX1 - Hydrogen Trend")
	assert.NotContains(t, body, "TX1 - Methane Trend", "insufficient data is not charted")
}

func TestDeleteRun(t *testing.T) {
	server, database := setupTestServer(t)
	seedRun(t, database)

	w := serve(server, http.MethodDelete, "/api/runs/run-1")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(server, http.MethodDelete, "/api/runs/run-1")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	server, _ := setupTestServer(t)
	w := serve(server, http.MethodPost, "/api/runs")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestLoggingMiddleware(t *testing.T) {
	lines, restore := monitoring.Capture()
	defer restore()

	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs?x=1", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	got := lines()
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "418")
	assert.Contains(t, got[0], "/api/runs?x=1")
}

func TestStatusCodeColor(t *testing.T) {
	assert.Equal(t, colorBoldGreen+"200"+colorReset, statusCodeColor(200))
	assert.Equal(t, colorYellow+"302"+colorReset, statusCodeColor(302))
	assert.Equal(t, colorBoldRed+"500"+colorReset, statusCodeColor(500))
	assert.Equal(t, "100", statusCodeColor(100))
}
