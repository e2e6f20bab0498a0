package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/interfaces"
	"github.com/ternarybob/lucrum/internal/services/sources"
)

// AnalysisHandler handles analyze, compare and query requests
type AnalysisHandler struct {
	analyzer interfaces.AnalyzerService
	resolver interfaces.SourceResolver
	logger   arbor.ILogger
}

// NewAnalysisHandler creates a new analysis handler with dependencies
func NewAnalysisHandler(analyzer interfaces.AnalyzerService, resolver interfaces.SourceResolver, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		resolver: resolver,
		logger:   logger,
	}
}

// analyzeRequest is the JSON body for POST /api/analyze. Exactly one source
// field must be set.
type analyzeRequest struct {
	EarningsText  string `json:"earnings_text"`
	URL           string `json:"url"`
	GoogleDocsURL string `json:"google_docs_url"`
	Ticker        string `json:"ticker"`
	CompanyName   string `json:"company_name"`
	Provider      string `json:"provider"`
}

// AnalyzeHandler handles POST /api/analyze. Accepts either a JSON body or a
// multipart form with a "file" part.
func (h *AnalysisHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var text, company, provider string
	var err error

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		text, company, provider, err = h.resolveUpload(r)
	} else {
		text, company, provider, err = h.resolveJSON(r)
	}
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if strings.TrimSpace(text) == "" {
		WriteError(w, http.StatusBadRequest, "No earnings text provided")
		return
	}

	h.logger.Info().
		Str("company", company).
		Str("provider", provider).
		Int("text_length", len(text)).
		Msg("Analysis request received")

	result, err := h.analyzer.Analyze(r.Context(), text, company, provider)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Analysis failed")
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (h *AnalysisHandler) resolveJSON(r *http.Request) (text, company, provider string, err error) {
	var req analyzeRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		return "", "", "", &badRequestError{"Invalid JSON body"}
	}

	source, sourceType := "", ""
	count := 0
	for _, candidate := range []struct {
		value string
		kind  string
	}{
		{req.EarningsText, "text"},
		{req.URL, "url"},
		{req.GoogleDocsURL, "gdocs"},
		{req.Ticker, "ticker"},
	} {
		if candidate.value != "" {
			source, sourceType = candidate.value, candidate.kind
			count++
		}
	}
	if count == 0 {
		return "", "", "", &badRequestError{"One of earnings_text, url, google_docs_url or ticker is required"}
	}
	if count > 1 {
		return "", "", "", &badRequestError{"Provide exactly one source field"}
	}

	text, err = h.resolver.Resolve(r.Context(), source, sourceType)
	return text, req.CompanyName, req.Provider, err
}

func (h *AnalysisHandler) resolveUpload(r *http.Request) (text, company, provider string, err error) {
	if parseErr := r.ParseMultipartForm(sources.MaxUploadSize); parseErr != nil {
		return "", "", "", &badRequestError{"Invalid multipart form"}
	}

	file, header, fileErr := r.FormFile("file")
	if fileErr != nil {
		return "", "", "", &badRequestError{"A file part named 'file' is required"}
	}
	defer file.Close()

	data, readErr := io.ReadAll(io.LimitReader(file, sources.MaxUploadSize+1))
	if readErr != nil {
		return "", "", "", &badRequestError{"Failed to read uploaded file"}
	}

	text, err = h.resolver.ResolveUpload(r.Context(), data, header.Filename)
	return text, r.FormValue("company_name"), r.FormValue("provider"), err
}

// compareRequest is the JSON body for POST /api/compare.
type compareRequest struct {
	CurrentReport  string `json:"current_report"`
	PreviousReport string `json:"previous_report"`
	CompanyName    string `json:"company_name"`
	Provider       string `json:"provider"`
}

// CompareHandler handles POST /api/compare
func (h *AnalysisHandler) CompareHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.CurrentReport == "" || req.PreviousReport == "" {
		WriteError(w, http.StatusBadRequest, "Both reports required")
		return
	}

	comparison, err := h.analyzer.Compare(r.Context(), req.CurrentReport, req.PreviousReport, req.CompanyName, req.Provider)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Comparison failed")
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, comparison)
}

// queryRequest is the JSON body for POST /api/query.
type queryRequest struct {
	Query    string `json:"query"`
	Provider string `json:"provider"`
	Company  string `json:"company"`
}

// QueryHandler handles POST /api/query
func (h *AnalysisHandler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		WriteError(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := h.analyzer.Query(r.Context(), req.Query, req.Provider, req.Company)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Query failed")
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// badRequestError carries a client-facing validation message through the
// error mapping with a 400 status.
type badRequestError struct {
	message string
}

func (e *badRequestError) Error() string { return e.message }
