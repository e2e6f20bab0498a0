package prompts

import (
	"fmt"
	"strings"

	"github.com/ternarybob/lucrum/internal/models"
)

// analysisSchemaContract describes the expected JSON shape for analysis
// responses. Providers without constrained output rely entirely on this
// contract, so it names every field and every closed enum value.
const analysisSchemaContract = `Respond with a single JSON object (no prose outside it) using this structure. Omit fields you cannot support from the report text; never fabricate values.

{
  "company_info": {"name": "", "ticker": "", "reporting_period": "e.g. Q4 2024", "report_date": ""},
  "financial_metrics": {
    "revenue": {"current": "", "previous": "", "yoy_growth": "", "currency": "", "confidence": 0-100},
    "earnings": {"eps_reported": "", "eps_expected": "", "beat_miss": "beat|miss|inline", "net_income": "", "confidence": 0-100},
    "margins": {"gross_margin": "", "operating_margin": "", "net_margin": "", "confidence": 0-100},
    "guidance": {"provided": true|false, "next_quarter_revenue": "", "next_quarter_eps": "", "full_year": ""}
  },
  "key_highlights": ["..."],
  "concerns_risks": ["Category: description — category is one of Regulatory, Market, Competition, Operational, Macro"],
  "sentiment_analysis": {"overall_tone": "bullish|neutral|bearish", "management_confidence": "high|medium|low", "forward_outlook": "optimistic|cautious|pessimistic", "sentiment_score": 0-100, "confidence": 0-100},
  "business_segments": [{"name": "", "performance": "", "revenue_contribution": ""}],
  "notable_quotes": [{"quote": "", "speaker": "", "context": ""}],
  "market_implications": {"likely_market_reaction": "", "key_takeaways": ["..."], "comparison_to_peers": ""},
  "historical_comparison": {"trends": "", "improving_areas": ["..."], "declining_areas": ["..."]},
  "red_flags": ["..."],
  "analyst_summary": "2-3 paragraphs"
}`

const analysisTemplate = `Analyze this earnings report%s thoroughly and extract all key financial data.

EARNINGS REPORT:
%s

Provide a comprehensive analysis covering:
- Company identification (name, ticker, reporting period, date)
- Financial metrics: revenue (current, previous, YoY growth, currency), earnings (EPS reported vs expected, beat/miss, net income), margins (gross, operating, net), and guidance (if provided)
- Key highlights and positive developments
- Concerns, risks, and headwinds — classify each risk into one of: Regulatory (government policy, legal, compliance, SEC), Market (demand shifts, pricing pressure, currency exposure), Competition (market share loss, new entrants, disruption), Operational (supply chain, execution, workforce, technology), Macro (recession, inflation, interest rates, geopolitical)
- Sentiment analysis: overall tone (bullish/neutral/bearish), management confidence (high/medium/low), forward outlook (optimistic/cautious/pessimistic), and a sentiment score from 0-100
- Business segment breakdown with performance and revenue contribution
- Notable management quotes with speaker and context
- Market implications: likely reaction, key takeaways, peer comparison
- Red flags or concerning patterns
- A 2-3 paragraph analyst summary

For each metric category (revenue, earnings, margins, sentiment), also provide a confidence score from 0-100 indicating how confident you are in the extracted data:
- 90-100: Data is explicitly and clearly stated in the report
- 70-89: Data is present but requires minor interpretation or calculation
- 40-69: Data is partially available, inferred, or ambiguous
- 0-39: Data is largely estimated or not directly supported by the report text

If information is not available in the report, omit the field. Focus on actionable insights.

%s`

const contextAwareTemplate = `Analyze this earnings report%s thoroughly. You have access to previous reports for this company — use them to identify trends, compare performance across quarters, and note acceleration or deceleration in key metrics. Reference specific changes from prior periods where relevant (e.g., "Revenue grew 12%%, accelerating from 8%% in the prior quarter").

%s

CURRENT EARNINGS REPORT:
%s

Provide a comprehensive analysis covering:
- Company identification (name, ticker, reporting period, date)
- Financial metrics: revenue, earnings, margins, and guidance
- Key highlights and concerns/risks — classify each risk into: Regulatory, Market, Competition, Operational, or Macro
- Sentiment analysis with a score from 0-100
- Business segments, notable quotes, market implications
- Historical comparison: trends across quarters, improving areas, declining areas
- Red flags
- A 2-3 paragraph analyst summary that references trends from prior quarters

For each metric category (revenue, earnings, margins, sentiment), also provide a confidence score from 0-100 indicating how confident you are in the extracted data:
- 90-100: Data is explicitly and clearly stated in the report
- 70-89: Data is present but requires minor interpretation or calculation
- 40-69: Data is partially available, inferred, or ambiguous
- 0-39: Data is largely estimated or not directly supported by the report text

If information is not available, omit the field. Focus on actionable insights and cross-quarter trends.

%s`

// comparisonSchemaContract describes the expected JSON shape for comparison
// responses. Metric-level trends are computed locally and are not requested.
const comparisonSchemaContract = `Respond with a single JSON object (no prose outside it) using this structure:

{
  "current": {"name": "", "ticker": "", "reporting_period": "", "report_date": ""},
  "previous": {"name": "", "ticker": "", "reporting_period": "", "report_date": ""},
  "trend_analysis": {"revenue_trend": "improving|declining|stable", "profitability_trend": "improving|declining|stable", "margin_trend": "expanding|contracting|stable"},
  "key_changes": ["..."],
  "momentum": {"accelerating": ["..."], "decelerating": ["..."]},
  "management_tone_shift": "",
  "strategic_shifts": ["..."],
  "comparative_summary": "2 paragraphs"
}`

const comparisonTemplate = `Compare these two earnings reports%s and identify trends, changes, and shifts.

CURRENT REPORT:
%s

PREVIOUS REPORT:
%s

Analyze: revenue/profitability/margin trends (improving/declining/stable), key changes between periods, momentum (accelerating vs decelerating areas), management tone shift, strategic shifts, and provide a 2-paragraph comparative summary.

%s`

const queryTemplate = `You are a financial analyst assistant. Answer the following question using ONLY the earnings report data provided below. If the data doesn't contain enough information to answer fully, say so.

AVAILABLE EARNINGS REPORT DATA:
%s

QUESTION: %s

Provide a detailed answer, indicate your confidence level (high/medium/low), cite specific sources (company, quarter, relevant detail), and note any limitations.`

// Corrective is appended to the prompt on the single retry after an invalid
// response. It restates the contract rather than echoing the bad output.
const Corrective = `Your previous response was not valid JSON matching the required structure. Respond again with ONLY the JSON object — no markdown fences, no commentary, every enum value chosen from its listed set, every score within 0-100.`

// Analysis builds the analysis prompt. When prior reports exist for the
// company the context-aware variant is used so the model can reference
// cross-quarter trends.
func Analysis(earningsText, company string, prior []models.StoredReport) string {
	if len(prior) == 0 {
		return fmt.Sprintf(analysisTemplate, companyContext(company), earningsText, analysisSchemaContract)
	}
	return fmt.Sprintf(contextAwareTemplate, companyContext(company), ContextSection(prior), earningsText, analysisSchemaContract)
}

// Comparison builds the two-report comparison prompt.
func Comparison(currentReport, previousReport, company string) string {
	return fmt.Sprintf(comparisonTemplate, companyContext(company), currentReport, previousReport, comparisonSchemaContract)
}

// Query builds the retrieval-grounded question prompt.
func Query(question string, reports []models.ScoredReport) string {
	return fmt.Sprintf(queryTemplate, QueryContext(reports), question)
}

// ContextSection formats historical reports into a prompt section.
func ContextSection(prior []models.StoredReport) string {
	if len(prior) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("HISTORICAL CONTEXT FROM PREVIOUS REPORTS:\n")
	for i, r := range prior {
		quarter := r.Quarter
		if quarter == "" {
			quarter = "Unknown period"
		}
		fmt.Fprintf(&b, "\n--- Report %d (%s) ---\n%s\n", i+1, quarter, r.Document)
	}
	return b.String()
}

// QueryContext formats retrieved reports into a prompt section for queries.
func QueryContext(reports []models.ScoredReport) string {
	var b strings.Builder
	for i, r := range reports {
		company := r.Report.Company
		if company == "" {
			company = "Unknown"
		}
		fmt.Fprintf(&b, "\n--- Report %d: %s (%s) ---\n%s\n", i+1, company, r.Report.Quarter, r.Report.Document)
	}
	return b.String()
}

func companyContext(company string) string {
	if company == "" {
		return ""
	}
	return " for " + company
}
