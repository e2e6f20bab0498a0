package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/ternarybob/lucrum/internal/models"
)

// InvestorBriefPDF renders the investor brief as a single-column A4 PDF.
func InvestorBriefPDF(analysis *models.AnalysisResult) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	company := analysis.CompanyInfo
	if company == nil {
		company = &models.CompanyInfo{}
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Investor Brief - %s", orNA(company.Name)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s    Date: %s", orNA(company.ReportingPeriod), orNA(company.ReportDate)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	revenue, earnings := revenueAndEarnings(analysis)
	writeSection(pdf, "Performance Snapshot", []string{
		fmt.Sprintf("Revenue: %s", orNA(revenue.Current)),
		fmt.Sprintf("YoY Growth: %s", orNA(revenue.YoYGrowth)),
		fmt.Sprintf("EPS: %s (%s expectations)", orNA(earnings.EPSReported), orNA(earnings.BeatMiss)),
	})

	sentiment := analysis.SentimentAnalysis
	if sentiment == nil {
		sentiment = &models.SentimentAnalysis{}
	}
	writeSection(pdf, "Sentiment", []string{
		fmt.Sprintf("Overall: %s (Score: %s/100)", orNA(sentiment.OverallTone), scoreOrNA(sentiment.SentimentScore)),
		fmt.Sprintf("Outlook: %s", orNA(sentiment.ForwardOutlook)),
	})

	writeSection(pdf, "Key Highlights", numberedLines(analysis.KeyHighlights))
	writeSection(pdf, "Concerns & Risks", numberedLines(analysis.ConcernsRisks))
	if len(analysis.RedFlags) > 0 {
		writeSection(pdf, "Red Flags", analysis.RedFlags)
	}

	if analysis.AnalystSummary != "" {
		writeSection(pdf, "Analyst Summary", []string{analysis.AnalystSummary})
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *fpdf.Fpdf, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range lines {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
	pdf.Ln(3)
}

func numberedLines(items []string) []string {
	var lines []string
	for i, item := range items {
		if i >= maxListedItems {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
	}
	return lines
}
