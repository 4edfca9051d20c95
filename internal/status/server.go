// internal/status/server.go

// Package status exposes the HTTP surface of the daemon: health, the
// event store, the latest scan report, a manual scan trigger, and
// Prometheus metrics.
package status

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/commentwatch/internal/store"
	"github.com/user/commentwatch/internal/types"
)

// ScanFunc triggers an immediate scan and returns its report.
type ScanFunc func(ctx context.Context) (*types.ScanReport, error)

// Server is a lightweight HTTP handler for the status endpoints.
type Server struct {
	events  *store.FileStore
	reports *store.ReportLog
	scan    ScanFunc
	mux     *http.ServeMux
}

// NewServer creates a status Server over the given stores. scan may be nil,
// in which case POST /api/scan reports the trigger as unavailable.
func NewServer(events *store.FileStore, reports *store.ReportLog, scan ScanFunc) *Server {
	s := &Server{
		events:  events,
		reports: reports,
		scan:    scan,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	s.mux.HandleFunc("GET /api/report", s.handleReport)
	s.mux.HandleFunc("POST /api/scan", s.handleScan)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}

	events, err := s.events.Tail(limit)
	if err != nil {
		slog.Error("tail events failed", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []types.Event{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.Last()
	if err != nil {
		slog.Error("read report log failed", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	if report == nil {
		http.Error(w, `{"error":"no scans recorded"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if s.scan == nil {
		http.Error(w, `{"error":"scan trigger not configured"}`, http.StatusServiceUnavailable)
		return
	}

	report, err := s.scan(r.Context())
	if err != nil {
		slog.Error("triggered scan failed", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
