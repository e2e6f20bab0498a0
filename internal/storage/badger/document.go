package badger

import (
	"strings"

	"github.com/ternarybob/lucrum/internal/models"
)

// BuildDocument builds the text projection that gets embedded for a report:
// company identification, analyst summary, highlights and concerns. The full
// analysis is stored separately; only this projection drives similarity
// search.
func BuildDocument(analysis *models.AnalysisResult) string {
	var parts []string

	if info := analysis.CompanyInfo; info != nil {
		if info.Name != "" {
			parts = append(parts, "Company: "+info.Name)
		}
		if info.ReportingPeriod != "" {
			parts = append(parts, "Period: "+info.ReportingPeriod)
		}
	}

	if analysis.AnalystSummary != "" {
		parts = append(parts, analysis.AnalystSummary)
	}

	if len(analysis.KeyHighlights) > 0 {
		parts = append(parts, "Key highlights: "+strings.Join(analysis.KeyHighlights, "; "))
	}

	if len(analysis.ConcernsRisks) > 0 {
		parts = append(parts, "Concerns: "+strings.Join(analysis.ConcernsRisks, "; "))
	}

	return strings.Join(parts, "\n")
}
