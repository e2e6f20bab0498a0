package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/services/llm"
)

// ConfigChecker reports whether a provider has its API key configured.
// *llm.ProviderFactory satisfies this.
type ConfigChecker interface {
	IsConfigured(provider llm.ProviderType) bool
}

// ProviderHandler serves the supported-provider listing for the dashboard
// provider selector.
type ProviderHandler struct {
	checker ConfigChecker
	logger  arbor.ILogger
}

// NewProviderHandler creates a new provider handler with dependencies
func NewProviderHandler(checker ConfigChecker, logger arbor.ILogger) *ProviderHandler {
	return &ProviderHandler{
		checker: checker,
		logger:  logger,
	}
}

type providerStatus struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	DefaultModel string `json:"default_model"`
	RequiresKey  bool   `json:"requires_key"`
	Configured   bool   `json:"configured"`
}

// ListHandler handles GET /api/providers
func (h *ProviderHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	descriptors := llm.Descriptors()
	statuses := make([]providerStatus, 0, len(descriptors))
	for _, d := range descriptors {
		statuses = append(statuses, providerStatus{
			ID:           d.ID,
			Label:        d.Label,
			DefaultModel: d.DefaultModel,
			RequiresKey:  d.RequiresKey,
			Configured:   h.checker.IsConfigured(llm.ProviderType(d.ID)),
		})
	}
	WriteJSON(w, http.StatusOK, statuses)
}
