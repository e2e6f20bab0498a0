package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/models"
	"github.com/ternarybob/lucrum/internal/services/llm"
)

// fakeAnalyzer records the arguments it was called with and replays canned
// results.
type fakeAnalyzer struct {
	analysisResult   *models.AnalysisResult
	comparisonResult *models.ComparisonResult
	queryResult      *models.QueryResult
	err              error

	gotText     string
	gotCompany  string
	gotProvider string
	gotQuestion string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, text, company, provider string) (*models.AnalysisResult, error) {
	f.gotText, f.gotCompany, f.gotProvider = text, company, provider
	return f.analysisResult, f.err
}

func (f *fakeAnalyzer) Compare(_ context.Context, currentText, previousText, company, provider string) (*models.ComparisonResult, error) {
	f.gotText, f.gotCompany, f.gotProvider = currentText, company, provider
	return f.comparisonResult, f.err
}

func (f *fakeAnalyzer) Query(_ context.Context, question, provider, company string) (*models.QueryResult, error) {
	f.gotQuestion, f.gotProvider, f.gotCompany = question, provider, company
	return f.queryResult, f.err
}

type fakeResolver struct {
	text        string
	err         error
	gotSource   string
	gotType     string
	gotFilename string
}

func (f *fakeResolver) Resolve(_ context.Context, source, sourceType string) (string, error) {
	f.gotSource, f.gotType = source, sourceType
	return f.text, f.err
}

func (f *fakeResolver) ResolveUpload(_ context.Context, _ []byte, filename string) (string, error) {
	f.gotFilename = filename
	return f.text, f.err
}

type fakeStore struct {
	reports []*models.StoredReport
	err     error
}

func (f *fakeStore) Save(_ context.Context, _ *models.AnalysisResult, _ string) (string, error) {
	return "rpt_test", f.err
}

func (f *fakeStore) Get(id string) (*models.StoredReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, &common.NotFoundError{ID: id}
}

func (f *fakeStore) History(limit int) ([]*models.StoredReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && len(f.reports) > limit {
		return f.reports[:limit], nil
	}
	return f.reports, nil
}

func (f *fakeStore) RecentForCompany(name string, limit int) ([]*models.StoredReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	var matched []*models.StoredReport
	for _, r := range f.reports {
		if strings.EqualFold(r.Company, name) {
			matched = append(matched, r)
		}
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeStore) Query(_ context.Context, _ string, _ int, _ string) ([]models.ScoredReport, error) {
	return nil, f.err
}

func (f *fakeStore) Count() (int, error) {
	return len(f.reports), f.err
}

type fakeChecker struct {
	configured map[llm.ProviderType]bool
}

func (f *fakeChecker) IsConfigured(provider llm.ProviderType) bool {
	return f.configured[provider]
}

func intPtr(v int) *int { return &v }

func testAnalysis(company string) *models.AnalysisResult {
	return &models.AnalysisResult{
		CompanyInfo: &models.CompanyInfo{Name: company, ReportingPeriod: "Q3 2025"},
		FinancialMetrics: &models.FinancialMetrics{
			Revenue:  &models.Revenue{Current: "$25.2B"},
			Earnings: &models.Earnings{EPSReported: "$5.40"},
		},
		KeyHighlights:     []string{"Record revenue"},
		SentimentAnalysis: &models.SentimentAnalysis{OverallTone: "bullish", SentimentScore: intPtr(70)},
		AnalystSummary:    "Solid quarter.",
	}
}

func storedReport(id, company string, createdAt time.Time) *models.StoredReport {
	return &models.StoredReport{
		ID:             id,
		Company:        company,
		Quarter:        "Q3 2025",
		SentimentScore: 70,
		Analysis:       testAnalysis(company),
		CreatedAt:      createdAt,
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestAnalyzeHandler_TextSource(t *testing.T) {
	analyzer := &fakeAnalyzer{analysisResult: testAnalysis("Acme Corp")}
	resolver := &fakeResolver{text: "Acme reported record revenue this quarter."}
	h := NewAnalysisHandler(analyzer, resolver, arbor.NewLogger())

	body := `{"earnings_text": "Acme reported record revenue this quarter.", "company_name": "Acme Corp", "provider": "claude"}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.AnalyzeHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text", resolver.gotType)
	assert.Equal(t, "Acme Corp", analyzer.gotCompany)
	assert.Equal(t, "claude", analyzer.gotProvider)

	var result models.AnalysisResult
	decodeBody(t, rec, &result)
	assert.Equal(t, "Acme Corp", result.CompanyInfo.Name)
}

func TestAnalyzeHandler_NoSource(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalyzer{}, &fakeResolver{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"company_name": "Acme"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.AnalyzeHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "earnings_text")
}

func TestAnalyzeHandler_MultipleSources(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalyzer{}, &fakeResolver{}, arbor.NewLogger())

	body := `{"earnings_text": "text", "url": "https://example.com/report"}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.AnalyzeHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "exactly one source")
}

func TestAnalyzeHandler_SourceUnavailable(t *testing.T) {
	resolver := &fakeResolver{err: &common.SourceUnavailableError{Source: "https://example.com", Err: assert.AnError}}
	h := NewAnalysisHandler(&fakeAnalyzer{}, resolver, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"url": "https://example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.AnalyzeHandler(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAnalyzeHandler_EmptyResolvedText(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalyzer{}, &fakeResolver{text: "   "}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"url": "https://example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.AnalyzeHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No earnings text provided")
}

func TestAnalyzeHandler_MethodNotAllowed(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalyzer{}, &fakeResolver{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rec := httptest.NewRecorder()

	h.AnalyzeHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAnalyzeHandler_Upload(t *testing.T) {
	analyzer := &fakeAnalyzer{analysisResult: testAnalysis("Acme Corp")}
	resolver := &fakeResolver{text: "Report text from upload."}
	h := NewAnalysisHandler(analyzer, resolver, arbor.NewLogger())

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "report.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Report text from upload."))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("company_name", "Acme Corp"))
	require.NoError(t, writer.WriteField("provider", "gemini"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	h.AnalyzeHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "report.txt", resolver.gotFilename)
	assert.Equal(t, "Acme Corp", analyzer.gotCompany)
	assert.Equal(t, "gemini", analyzer.gotProvider)
}

func TestCompareHandler_MissingReport(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalyzer{}, &fakeResolver{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/compare", strings.NewReader(`{"current_report": "only one"}`))
	rec := httptest.NewRecorder()

	h.CompareHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Both reports required")
}

func TestCompareHandler_Success(t *testing.T) {
	analyzer := &fakeAnalyzer{comparisonResult: &models.ComparisonResult{
		MetricTrends: []models.MetricTrend{{Metric: "revenue", Direction: "up"}},
	}}
	h := NewAnalysisHandler(analyzer, &fakeResolver{}, arbor.NewLogger())

	body := `{"current_report": "q3 text", "previous_report": "q2 text", "company_name": "Acme"}`
	req := httptest.NewRequest(http.MethodPost, "/api/compare", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.CompareHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "q3 text", analyzer.gotText)

	var result models.ComparisonResult
	decodeBody(t, rec, &result)
	require.Len(t, result.MetricTrends, 1)
	assert.Equal(t, "revenue", result.MetricTrends[0].Metric)
	assert.Equal(t, "up", result.MetricTrends[0].Direction)
}

func TestQueryHandler_EmptyQuery(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalyzer{}, &fakeResolver{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"query": "  "}`))
	rec := httptest.NewRecorder()

	h.QueryHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "query is required")
}

func TestQueryHandler_Success(t *testing.T) {
	analyzer := &fakeAnalyzer{queryResult: &models.QueryResult{
		Answer:     "Revenue grew 8% in Q3.",
		Confidence: "high",
		Sources:    []models.QuerySource{{ID: "rpt_1", Company: "Acme Corp"}},
	}}
	h := NewAnalysisHandler(analyzer, &fakeResolver{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"query": "How did revenue trend?", "company": "Acme Corp"}`))
	rec := httptest.NewRecorder()

	h.QueryHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "How did revenue trend?", analyzer.gotQuestion)
	assert.Equal(t, "Acme Corp", analyzer.gotCompany)

	var result models.QueryResult
	decodeBody(t, rec, &result)
	assert.Equal(t, "high", result.Confidence)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "rpt_1", result.Sources[0].ID)
}

func TestHistoryHandler(t *testing.T) {
	now := time.Now()
	store := &fakeStore{reports: []*models.StoredReport{
		storedReport("rpt_2", "Acme Corp", now),
		storedReport("rpt_1", "Globex", now.Add(-time.Hour)),
	}}
	h := NewReportHandler(store, models.Thresholds{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()

	h.HistoryHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var entries []models.HistoryEntry
	decodeBody(t, rec, &entries)
	require.Len(t, entries, 2)
	assert.Equal(t, "rpt_2", entries[0].ID)
	assert.Equal(t, 70, entries[0].SentimentScore)
}

func TestHistoryHandler_Limit(t *testing.T) {
	now := time.Now()
	store := &fakeStore{reports: []*models.StoredReport{
		storedReport("rpt_3", "Acme Corp", now),
		storedReport("rpt_2", "Acme Corp", now.Add(-time.Hour)),
		storedReport("rpt_1", "Acme Corp", now.Add(-2*time.Hour)),
	}}
	h := NewReportHandler(store, models.Thresholds{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/history?limit=2", nil)
	rec := httptest.NewRecorder()

	h.HistoryHandler(rec, req)

	var entries []models.HistoryEntry
	decodeBody(t, rec, &entries)
	assert.Len(t, entries, 2)
}

func TestGetReportHandler(t *testing.T) {
	store := &fakeStore{reports: []*models.StoredReport{storedReport("rpt_1", "Acme Corp", time.Now())}}
	h := NewReportHandler(store, models.Thresholds{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/report/rpt_1", nil)
	rec := httptest.NewRecorder()

	h.GetReportHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var report models.StoredReport
	decodeBody(t, rec, &report)
	assert.Equal(t, "rpt_1", report.ID)
	require.NotNil(t, report.Analysis)
	assert.Equal(t, "Acme Corp", report.Analysis.CompanyInfo.Name)
}

func TestGetReportHandler_NotFound(t *testing.T) {
	h := NewReportHandler(&fakeStore{}, models.Thresholds{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/report/rpt_missing", nil)
	rec := httptest.NewRecorder()

	h.GetReportHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompanyHistoryHandler(t *testing.T) {
	now := time.Now()
	store := &fakeStore{reports: []*models.StoredReport{
		storedReport("rpt_2", "Acme Corp", now),
		storedReport("rpt_1", "Acme Corp", now.Add(-time.Hour)),
		storedReport("rpt_3", "Globex", now),
	}}
	h := NewReportHandler(store, models.Thresholds{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/company-history?company=Acme+Corp", nil)
	rec := httptest.NewRecorder()

	h.CompanyHistoryHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var points []models.CompanyMetricPoint
	decodeBody(t, rec, &points)
	require.Len(t, points, 2)
	// Oldest first for charting
	assert.Equal(t, "rpt_1", points[0].ID)
	assert.Equal(t, "rpt_2", points[1].ID)
	assert.Equal(t, "$25.2B", points[0].Revenue)
}

func TestCompanyHistoryHandler_MissingCompany(t *testing.T) {
	h := NewReportHandler(&fakeStore{}, models.Thresholds{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/company-history", nil)
	rec := httptest.NewRecorder()

	h.CompanyHistoryHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandler_JSON(t *testing.T) {
	store := &fakeStore{reports: []*models.StoredReport{storedReport("rpt_1", "Acme Corp", time.Now())}}
	h := NewReportHandler(store, models.Thresholds{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/export/rpt_1", nil)
	rec := httptest.NewRecorder()

	h.ExportHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".json")
}

func TestExportHandler_Text(t *testing.T) {
	store := &fakeStore{reports: []*models.StoredReport{storedReport("rpt_1", "Acme Corp", time.Now())}}
	h := NewReportHandler(store, models.Thresholds{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/export/rpt_1?format=text", nil)
	rec := httptest.NewRecorder()

	h.ExportHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVESTOR BRIEF - Acme Corp")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".txt")
}

func TestExportHandler_PDF(t *testing.T) {
	store := &fakeStore{reports: []*models.StoredReport{storedReport("rpt_1", "Acme Corp", time.Now())}}
	h := NewReportHandler(store, models.Thresholds{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/export/rpt_1?format=pdf", nil)
	rec := httptest.NewRecorder()

	h.ExportHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestExportHandler_UnknownFormat(t *testing.T) {
	store := &fakeStore{reports: []*models.StoredReport{storedReport("rpt_1", "Acme Corp", time.Now())}}
	h := NewReportHandler(store, models.Thresholds{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/export/rpt_1?format=xml", nil)
	rec := httptest.NewRecorder()

	h.ExportHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAlertsHandler_Defaults(t *testing.T) {
	report := storedReport("rpt_1", "Acme Corp", time.Now())
	report.Analysis.FinancialMetrics.Earnings = &models.Earnings{
		EPSReported: "$5.40",
		EPSExpected: "$5.00",
		BeatMiss:    "beat",
	}
	report.Analysis.SentimentAnalysis.SentimentScore = intPtr(55)

	eps := 5.0
	sentiment := 60
	store := &fakeStore{reports: []*models.StoredReport{report}}
	h := NewReportHandler(store, models.Thresholds{EPSBeatThreshold: &eps, SentimentMin: &sentiment}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/rpt_1", nil)
	rec := httptest.NewRecorder()

	h.AlertsHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ReportID string         `json:"report_id"`
		Alerts   []models.Alert `json:"alerts"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "rpt_1", resp.ReportID)
	require.Len(t, resp.Alerts, 2)
	assert.Equal(t, "eps_beat", resp.Alerts[0].Rule)
	assert.Equal(t, "sentiment_min", resp.Alerts[1].Rule)
}

func TestAlertsHandler_QueryOverrides(t *testing.T) {
	report := storedReport("rpt_1", "Acme Corp", time.Now())
	report.Analysis.SentimentAnalysis.SentimentScore = intPtr(70)

	store := &fakeStore{reports: []*models.StoredReport{report}}
	h := NewReportHandler(store, models.Thresholds{}, arbor.NewLogger())

	// 70 is below the overridden floor of 80
	req := httptest.NewRequest(http.MethodGet, "/api/alerts/rpt_1?sentiment_min=80", nil)
	rec := httptest.NewRecorder()

	h.AlertsHandler(rec, req)

	var resp struct {
		Alerts []models.Alert `json:"alerts"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, "sentiment_min", resp.Alerts[0].Rule)
}

func TestProviderListHandler(t *testing.T) {
	checker := &fakeChecker{configured: map[llm.ProviderType]bool{llm.ProviderClaude: true}}
	h := NewProviderHandler(checker, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/providers", nil)
	rec := httptest.NewRecorder()

	h.ListHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var statuses []providerStatus
	decodeBody(t, rec, &statuses)
	require.Len(t, statuses, 4)

	byID := make(map[string]providerStatus, len(statuses))
	for _, s := range statuses {
		byID[s.ID] = s
	}
	assert.True(t, byID["claude"].Configured)
	assert.False(t, byID["gemini"].Configured)
	assert.True(t, byID["openai"].RequiresKey)
}

func TestStatusHandler(t *testing.T) {
	store := &fakeStore{reports: []*models.StoredReport{storedReport("rpt_1", "Acme Corp", time.Now())}}
	checker := &fakeChecker{configured: map[llm.ProviderType]bool{llm.ProviderGemini: true}}
	h := NewStatusHandler(store, checker, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()

	h.GetStatusHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		Status              string   `json:"status"`
		StoredReports       int      `json:"stored_reports"`
		ConfiguredProviders []string `json:"configured_providers"`
	}
	decodeBody(t, rec, &status)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, 1, status.StoredReports)
	assert.Equal(t, []string{"gemini"}, status.ConfiguredProviders)
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", &badRequestError{"missing field"}, http.StatusBadRequest},
		{"configuration", &common.ConfigurationError{Provider: "claude", Message: "no key"}, http.StatusBadRequest},
		{"source unavailable", &common.SourceUnavailableError{Source: "https://example.com", Err: assert.AnError}, http.StatusBadGateway},
		{"provider timeout", &common.ProviderTimeoutError{Provider: "gemini"}, http.StatusGatewayTimeout},
		{"invalid output", &common.ProviderInvalidOutputError{Provider: "claude", Err: assert.AnError}, http.StatusBadGateway},
		{"not found", &common.NotFoundError{ID: "rpt_x"}, http.StatusNotFound},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForError(tt.err))
		})
	}
}
