package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Analysis
	mux.HandleFunc("/api/analyze", s.app.AnalysisHandler.AnalyzeHandler) // POST - analyze one report
	mux.HandleFunc("/api/compare", s.app.AnalysisHandler.CompareHandler) // POST - compare two reports
	mux.HandleFunc("/api/query", s.app.AnalysisHandler.QueryHandler)     // POST - question over stored reports

	// API routes - Stored reports
	mux.HandleFunc("/api/history", s.app.ReportHandler.HistoryHandler)                // GET - recent analyses
	mux.HandleFunc("/api/report/", s.app.ReportHandler.GetReportHandler)              // GET /{id}
	mux.HandleFunc("/api/company-history", s.app.ReportHandler.CompanyHistoryHandler) // GET ?company=
	mux.HandleFunc("/api/export/", s.app.ReportHandler.ExportHandler)                 // GET /{id}?format=
	mux.HandleFunc("/api/alerts/", s.app.ReportHandler.AlertsHandler)                 // GET /{id}

	// API routes - System
	mux.HandleFunc("/api/providers", s.app.ProviderHandler.ListHandler)
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/version", s.app.StatusHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.StatusHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.notFoundHandler)

	return mux
}

func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Not found", http.StatusNotFound)
}
