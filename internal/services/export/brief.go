// Package export renders analysis results into shareable formats: a plain
// text investor brief and a PDF rendition of the same content.
package export

import (
	"fmt"
	"strings"

	"github.com/ternarybob/lucrum/internal/models"
)

const (
	ruleHeavy = "======================================================================"
	ruleLight = "----------------------------------------------------------------------"

	maxListedItems = 5
)

// InvestorBrief formats an analysis into a human-readable text brief.
func InvestorBrief(analysis *models.AnalysisResult) string {
	var b strings.Builder

	company := analysis.CompanyInfo
	if company == nil {
		company = &models.CompanyInfo{}
	}

	fmt.Fprintf(&b, "\n%s\n", ruleHeavy)
	fmt.Fprintf(&b, "INVESTOR BRIEF - %s\n", orNA(company.Name))
	fmt.Fprintf(&b, "%s\n\n", ruleHeavy)
	fmt.Fprintf(&b, "Period: %s\n", orNA(company.ReportingPeriod))
	fmt.Fprintf(&b, "Date: %s\n\n", orNA(company.ReportDate))

	fmt.Fprintf(&b, "PERFORMANCE SNAPSHOT\n%s\n", ruleLight)
	revenue, earnings := revenueAndEarnings(analysis)
	fmt.Fprintf(&b, "Revenue: %s\n", orNA(revenue.Current))
	fmt.Fprintf(&b, "YoY Growth: %s\n", orNA(revenue.YoYGrowth))
	fmt.Fprintf(&b, "EPS: %s (%s expectations)\n\n", orNA(earnings.EPSReported), orNA(earnings.BeatMiss))

	fmt.Fprintf(&b, "SENTIMENT\n%s\n", ruleLight)
	sentiment := analysis.SentimentAnalysis
	if sentiment == nil {
		sentiment = &models.SentimentAnalysis{}
	}
	fmt.Fprintf(&b, "Overall: %s (Score: %s/100)\n", orNA(sentiment.OverallTone), scoreOrNA(sentiment.SentimentScore))
	fmt.Fprintf(&b, "Outlook: %s\n\n", orNA(sentiment.ForwardOutlook))

	fmt.Fprintf(&b, "KEY HIGHLIGHTS\n%s\n", ruleLight)
	writeNumbered(&b, analysis.KeyHighlights)

	fmt.Fprintf(&b, "\nCONCERNS & RISKS\n%s\n", ruleLight)
	writeNumbered(&b, analysis.ConcernsRisks)

	if len(analysis.RedFlags) > 0 {
		fmt.Fprintf(&b, "\nRED FLAGS\n%s\n", ruleLight)
		for _, flag := range analysis.RedFlags {
			fmt.Fprintf(&b, "  %s\n", flag)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", ruleHeavy)
	return b.String()
}

func revenueAndEarnings(analysis *models.AnalysisResult) (*models.Revenue, *models.Earnings) {
	revenue := &models.Revenue{}
	earnings := &models.Earnings{}
	if analysis.FinancialMetrics != nil {
		if analysis.FinancialMetrics.Revenue != nil {
			revenue = analysis.FinancialMetrics.Revenue
		}
		if analysis.FinancialMetrics.Earnings != nil {
			earnings = analysis.FinancialMetrics.Earnings
		}
	}
	return revenue, earnings
}

func writeNumbered(b *strings.Builder, items []string) {
	for i, item := range items {
		if i >= maxListedItems {
			break
		}
		fmt.Fprintf(b, "%d. %s\n", i+1, item)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func scoreOrNA(score *int) string {
	if score == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *score)
}
