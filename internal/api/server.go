// Package api serves stored analysis runs over HTTP.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/dga.report/internal/db"
	"github.com/banshee-data/dga.report/internal/dga"
	"github.com/banshee-data/dga.report/internal/httputil"
	"github.com/banshee-data/dga.report/internal/monitoring"
	"github.com/banshee-data/dga.report/internal/report"
)

const (
	colorCyan      = "\033[36m"
	colorReset     = "\033[0m"
	colorYellow    = "\033[33m"
	colorBoldGreen = "\033[1;32m"
	colorBoldRed   = "\033[1;31m"
)

// Server exposes the results store.
type Server struct {
	db         *db.DB
	thresholds dga.Thresholds
}

// NewServer returns a server over database. Thresholds are drawn on the
// HTML report charts.
func NewServer(database *db.DB, thresholds dga.Thresholds) *Server {
	return &Server{db: database, thresholds: thresholds}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	code := strconv.Itoa(statusCode)
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + code + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + code + colorReset
	case statusCode >= 400:
		return colorBoldRed + code + colorReset
	default:
		return code
	}
}

// LoggingMiddleware logs method, path, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux returns the API routes.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/runs", s.listRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.getRun)
	mux.HandleFunc("DELETE /api/runs/{id}", s.deleteRun)
	mux.HandleFunc("GET /api/runs/{id}/trends", s.listTrends)
	mux.HandleFunc("GET /api/runs/{id}/outliers", s.listOutliers)
	mux.HandleFunc("GET /api/runs/{id}/report", s.showReport)
	return mux
}

// lookupRun writes the error response and returns nil when the run cannot
// be loaded.
func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) *db.Run {
	run, err := s.db.GetRun(r.PathValue("id"))
	if errors.Is(err, db.ErrRunNotFound) {
		httputil.NotFound(w, "run not found")
		return nil
	}
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return nil
	}
	return run
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			httputil.BadRequest(w, "invalid 'limit' parameter")
			return
		}
		limit = n
	}
	runs, err := s.db.ListRuns(limit)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	httputil.WriteJSONOK(w, runs)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	if run := s.lookupRun(w, r); run != nil {
		httputil.WriteJSONOK(w, run)
	}
}

func (s *Server) deleteRun(w http.ResponseWriter, r *http.Request) {
	err := s.db.DeleteRun(r.PathValue("id"))
	if errors.Is(err, db.ErrRunNotFound) {
		httputil.NotFound(w, "run not found")
		return
	}
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTrends(w http.ResponseWriter, r *http.Request) {
	run := s.lookupRun(w, r)
	if run == nil {
		return
	}
	verdicts, err := s.db.TrendsForRun(run.ID)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	out := make([]trendResponse, len(verdicts))
	for i, v := range verdicts {
		out[i] = newTrendResponse(v)
	}
	httputil.WriteJSONOK(w, out)
}

func (s *Server) listOutliers(w http.ResponseWriter, r *http.Request) {
	run := s.lookupRun(w, r)
	if run == nil {
		return
	}
	records, err := s.db.OutliersForRun(run.ID)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	out := make([]outlierResponse, len(records))
	for i, o := range records {
		out[i] = newOutlierResponse(o)
	}
	httputil.WriteJSONOK(w, out)
}

func (s *Server) showReport(w http.ResponseWriter, r *http.Request) {
	run := s.lookupRun(w, r)
	if run == nil {
		return
	}
	verdicts, err := s.db.TrendsForRun(run.ID)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}

	// Render into a buffer so a failure still yields a clean error response.
	var buf bytes.Buffer
	title := fmt.Sprintf("DGA trends: %s (%s)", run.Source, run.Period)
	if err := report.RenderHTML(&buf, title, report.ChartsFromVerdicts(verdicts, s.thresholds)); err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
