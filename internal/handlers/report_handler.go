package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/interfaces"
	"github.com/ternarybob/lucrum/internal/models"
	"github.com/ternarybob/lucrum/internal/services/alerts"
	"github.com/ternarybob/lucrum/internal/services/export"
)

const defaultHistoryLimit = 50

// ReportHandler serves stored reports: history, detail, exports and alert
// evaluation.
type ReportHandler struct {
	store      interfaces.ReportStorage
	thresholds models.Thresholds // defaults from config; overridable per request
	logger     arbor.ILogger
}

// NewReportHandler creates a new report handler with dependencies
func NewReportHandler(store interfaces.ReportStorage, thresholds models.Thresholds, logger arbor.ILogger) *ReportHandler {
	return &ReportHandler{
		store:      store,
		thresholds: thresholds,
		logger:     logger,
	}
}

// HistoryHandler handles GET /api/history
func (h *ReportHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	reports, err := h.store.History(limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	entries := make([]models.HistoryEntry, 0, len(reports))
	for _, report := range reports {
		entries = append(entries, report.HistoryEntry())
	}
	WriteJSON(w, http.StatusOK, entries)
}

// GetReportHandler handles GET /api/report/{id}
func (h *ReportHandler) GetReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/report/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "Report id is required")
		return
	}

	report, err := h.store.Get(id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// CompanyHistoryHandler handles GET /api/company-history?company=. Points
// come back oldest first, ready for charting.
func (h *ReportHandler) CompanyHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	company := strings.TrimSpace(r.URL.Query().Get("company"))
	if company == "" {
		WriteError(w, http.StatusBadRequest, "company query parameter is required")
		return
	}

	reports, err := h.store.RecentForCompany(company, 0)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	// RecentForCompany is newest first; charts read left to right
	points := make([]models.CompanyMetricPoint, 0, len(reports))
	for i := len(reports) - 1; i >= 0; i-- {
		points = append(points, reports[i].MetricPoint())
	}
	WriteJSON(w, http.StatusOK, points)
}

// ExportHandler handles GET /api/export/{id}?format=json|text|pdf as an
// attachment download.
func (h *ReportHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/export/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "Report id is required")
		return
	}

	report, err := h.store.Get(id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	stamp := time.Now().Format("20060102_150405")
	format := r.URL.Query().Get("format")
	switch format {
	case "", "json":
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="analysis_%s_%s.json"`, id, stamp))
		WriteJSON(w, http.StatusOK, report)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="analysis_%s_%s.txt"`, id, stamp))
		fmt.Fprint(w, export.InvestorBrief(report.Analysis))
	case "pdf":
		data, pdfErr := export.InvestorBriefPDF(report.Analysis)
		if pdfErr != nil {
			h.logger.Warn().Err(pdfErr).Str("report_id", id).Msg("PDF export failed")
			WriteError(w, http.StatusInternalServerError, "PDF generation failed")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="analysis_%s_%s.pdf"`, id, stamp))
		w.Write(data)
	default:
		WriteError(w, http.StatusBadRequest, "Unknown format, expected json, text or pdf")
	}
}

// AlertsHandler handles GET /api/alerts/{id}. Configured defaults apply;
// query parameters override individual thresholds for the request.
func (h *ReportHandler) AlertsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/alerts/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "Report id is required")
		return
	}

	report, err := h.store.Get(id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	thresholds := h.thresholds
	query := r.URL.Query()
	if raw := query.Get("eps_beat_threshold"); raw != "" {
		if v, parseErr := strconv.ParseFloat(raw, 64); parseErr == nil {
			thresholds.EPSBeatThreshold = &v
		}
	}
	if raw := query.Get("sentiment_min"); raw != "" {
		if v, parseErr := strconv.Atoi(raw); parseErr == nil {
			thresholds.SentimentMin = &v
		}
	}
	if raw := query.Get("red_flag_count_max"); raw != "" {
		if v, parseErr := strconv.Atoi(raw); parseErr == nil {
			thresholds.RedFlagCountMax = &v
		}
	}
	if raw := query.Get("guidance_required"); raw != "" {
		thresholds.GuidanceRequired = raw == "true" || raw == "1"
	}

	result := alerts.Evaluate(report.Analysis, thresholds)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"report_id": id,
		"alerts":    result,
	})
}
