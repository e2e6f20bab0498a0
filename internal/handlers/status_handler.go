package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/interfaces"
	"github.com/ternarybob/lucrum/internal/services/llm"
)

// StatusHandler handles HTTP requests for application status
type StatusHandler struct {
	store     interfaces.ReportStorage
	checker   ConfigChecker
	startedAt time.Time
	logger    arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(store interfaces.ReportStorage, checker ConfigChecker, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		store:     store,
		checker:   checker,
		startedAt: time.Now(),
		logger:    logger,
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	configured := make([]string, 0, 4)
	for _, d := range llm.Descriptors() {
		if h.checker.IsConfigured(llm.ProviderType(d.ID)) {
			configured = append(configured, d.ID)
		}
	}

	count, err := h.store.Count()
	if err != nil {
		h.logger.Warn().Err(err).Msg("Report count unavailable for status")
		count = -1
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":               "ok",
		"version":              common.GetVersion(),
		"uptime_seconds":       int(time.Since(h.startedAt).Seconds()),
		"stored_reports":       count,
		"configured_providers": configured,
	})
}

// HealthHandler handles GET /api/health
func (h *StatusHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// VersionHandler handles GET /api/version
func (h *StatusHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetFullVersion(),
	})
}
