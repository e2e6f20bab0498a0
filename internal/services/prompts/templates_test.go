package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/lucrum/internal/models"
)

func TestAnalysisWithoutContext(t *testing.T) {
	p := Analysis("NVIDIA reported revenue of $35.1B.", "NVIDIA", nil)

	assert.Contains(t, p, "Analyze this earnings report for NVIDIA")
	assert.Contains(t, p, "NVIDIA reported revenue of $35.1B.")
	assert.Contains(t, p, `"sentiment_score": 0-100`)
	assert.NotContains(t, p, "HISTORICAL CONTEXT")
}

func TestAnalysisWithContext(t *testing.T) {
	prior := []models.StoredReport{
		{Quarter: "Q3 2024", Document: "Revenue $30.8B, sentiment 82."},
		{Quarter: "Q2 2024", Document: "Revenue $26.0B, sentiment 78."},
	}
	p := Analysis("Current report text.", "NVIDIA", prior)

	assert.Contains(t, p, "HISTORICAL CONTEXT FROM PREVIOUS REPORTS:")
	assert.Contains(t, p, "--- Report 1 (Q3 2024) ---")
	assert.Contains(t, p, "--- Report 2 (Q2 2024) ---")
	assert.Contains(t, p, "Revenue $30.8B, sentiment 82.")
	assert.Contains(t, p, "CURRENT EARNINGS REPORT:")
	// context section comes before the current report text
	assert.Less(t,
		strings.Index(p, "HISTORICAL CONTEXT"),
		strings.Index(p, "CURRENT EARNINGS REPORT:"))
}

func TestAnalysisNoCompany(t *testing.T) {
	p := Analysis("Some report.", "", nil)
	assert.Contains(t, p, "Analyze this earnings report thoroughly")
}

func TestContextSectionEmpty(t *testing.T) {
	assert.Empty(t, ContextSection(nil))
}

func TestContextSectionUnknownPeriod(t *testing.T) {
	s := ContextSection([]models.StoredReport{{Document: "No quarter recorded."}})
	assert.Contains(t, s, "--- Report 1 (Unknown period) ---")
}

func TestComparison(t *testing.T) {
	p := Comparison("current text", "previous text", "Acme Corp")

	assert.Contains(t, p, "Compare these two earnings reports for Acme Corp")
	assert.Contains(t, p, "CURRENT REPORT:\ncurrent text")
	assert.Contains(t, p, "PREVIOUS REPORT:\nprevious text")
	assert.Contains(t, p, `"margin_trend": "expanding|contracting|stable"`)
}

func TestQuery(t *testing.T) {
	reports := []models.ScoredReport{
		{Report: &models.StoredReport{Company: "NVIDIA", Quarter: "Q3 2024", Document: "Data center revenue doubled."}, Relevance: 0.91},
		{Report: &models.StoredReport{Quarter: "Q2 2024", Document: "Margins expanded."}, Relevance: 0.74},
	}
	p := Query("How is data center revenue trending?", reports)

	assert.Contains(t, p, "QUESTION: How is data center revenue trending?")
	assert.Contains(t, p, "--- Report 1: NVIDIA (Q3 2024) ---")
	assert.Contains(t, p, "--- Report 2: Unknown (Q2 2024) ---")
	assert.Contains(t, p, "Data center revenue doubled.")
}
