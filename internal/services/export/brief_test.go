package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/lucrum/internal/models"
)

func sampleAnalysis() *models.AnalysisResult {
	score := 82
	return &models.AnalysisResult{
		CompanyInfo: &models.CompanyInfo{
			Name:            "NVIDIA",
			ReportingPeriod: "Q3 2024",
			ReportDate:      "2024-11-20",
		},
		FinancialMetrics: &models.FinancialMetrics{
			Revenue:  &models.Revenue{Current: "$35.1B", YoYGrowth: "94%"},
			Earnings: &models.Earnings{EPSReported: "$0.81", BeatMiss: "beat"},
		},
		SentimentAnalysis: &models.SentimentAnalysis{
			OverallTone:    "bullish",
			ForwardOutlook: "optimistic",
			SentimentScore: &score,
		},
		KeyHighlights:  []string{"Data center revenue doubled", "Record gross margin", "a", "b", "c", "sixth item dropped"},
		ConcernsRisks:  []string{"Market: export restrictions"},
		RedFlags:       []string{"Customer concentration"},
		AnalystSummary: "An exceptional quarter.",
	}
}

func TestInvestorBrief(t *testing.T) {
	brief := InvestorBrief(sampleAnalysis())

	assert.Contains(t, brief, "INVESTOR BRIEF - NVIDIA")
	assert.Contains(t, brief, "Period: Q3 2024")
	assert.Contains(t, brief, "Revenue: $35.1B")
	assert.Contains(t, brief, "EPS: $0.81 (beat expectations)")
	assert.Contains(t, brief, "Overall: bullish (Score: 82/100)")
	assert.Contains(t, brief, "1. Data center revenue doubled")
	assert.Contains(t, brief, "RED FLAGS")
	assert.Contains(t, brief, "  Customer concentration")

	// lists cap at five entries
	assert.NotContains(t, brief, "sixth item dropped")
}

func TestInvestorBriefSparseResult(t *testing.T) {
	brief := InvestorBrief(&models.AnalysisResult{})

	assert.Contains(t, brief, "INVESTOR BRIEF - N/A")
	assert.Contains(t, brief, "Revenue: N/A")
	assert.Contains(t, brief, "Overall: N/A (Score: N/A/100)")
	assert.NotContains(t, brief, "RED FLAGS")
}

func TestInvestorBriefPDF(t *testing.T) {
	data, err := InvestorBriefPDF(sampleAnalysis())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))

	// sparse results still render
	data, err = InvestorBriefPDF(&models.AnalysisResult{})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
