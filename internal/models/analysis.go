package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// CompanyInfo identifies the reporting company and period.
type CompanyInfo struct {
	Name            string `json:"name,omitempty"`
	Ticker          string `json:"ticker,omitempty"`
	ReportingPeriod string `json:"reporting_period,omitempty"` // e.g. "Q4 2024"
	ReportDate      string `json:"report_date,omitempty"`
}

// Revenue holds revenue figures as reported. Values stay strings because
// reports mix currencies, units and qualifiers; parsing happens only when a
// comparison needs magnitudes.
type Revenue struct {
	Current    string `json:"current,omitempty"`
	Previous   string `json:"previous,omitempty"`
	YoYGrowth  string `json:"yoy_growth,omitempty"`
	Currency   string `json:"currency,omitempty"`
	Confidence *int   `json:"confidence,omitempty" validate:"omitempty,min=0,max=100"`
}

// Earnings holds EPS and income figures.
type Earnings struct {
	EPSReported string `json:"eps_reported,omitempty"`
	EPSExpected string `json:"eps_expected,omitempty"`
	BeatMiss    string `json:"beat_miss,omitempty" validate:"omitempty,oneof=beat miss inline"`
	NetIncome   string `json:"net_income,omitempty"`
	Confidence  *int   `json:"confidence,omitempty" validate:"omitempty,min=0,max=100"`
}

// Margins holds margin percentages.
type Margins struct {
	GrossMargin     string `json:"gross_margin,omitempty"`
	OperatingMargin string `json:"operating_margin,omitempty"`
	NetMargin       string `json:"net_margin,omitempty"`
	Confidence      *int   `json:"confidence,omitempty" validate:"omitempty,min=0,max=100"`
}

// Guidance holds forward guidance. Provided is a pointer so "no guidance
// section in the report" and "guidance explicitly not given" stay distinct.
type Guidance struct {
	Provided           *bool  `json:"provided,omitempty"`
	NextQuarterRevenue string `json:"next_quarter_revenue,omitempty"`
	NextQuarterEPS     string `json:"next_quarter_eps,omitempty"`
	FullYear           string `json:"full_year,omitempty"`
}

// FinancialMetrics groups the extracted metric categories.
type FinancialMetrics struct {
	Revenue  *Revenue  `json:"revenue,omitempty"`
	Earnings *Earnings `json:"earnings,omitempty"`
	Margins  *Margins  `json:"margins,omitempty"`
	Guidance *Guidance `json:"guidance,omitempty"`
}

// SentimentAnalysis holds tone assessment of the report.
type SentimentAnalysis struct {
	OverallTone          string `json:"overall_tone,omitempty" validate:"omitempty,oneof=bullish neutral bearish"`
	ManagementConfidence string `json:"management_confidence,omitempty" validate:"omitempty,oneof=high medium low"`
	ForwardOutlook       string `json:"forward_outlook,omitempty" validate:"omitempty,oneof=optimistic cautious pessimistic"`
	SentimentScore       *int   `json:"sentiment_score,omitempty" validate:"omitempty,min=0,max=100"`
	Confidence           *int   `json:"confidence,omitempty" validate:"omitempty,min=0,max=100"`
}

// BusinessSegment describes one segment's performance.
type BusinessSegment struct {
	Name                string `json:"name,omitempty"`
	Performance         string `json:"performance,omitempty"`
	RevenueContribution string `json:"revenue_contribution,omitempty"`
}

// NotableQuote is a management statement worth surfacing.
type NotableQuote struct {
	Quote   string `json:"quote,omitempty"`
	Speaker string `json:"speaker,omitempty"`
	Context string `json:"context,omitempty"`
}

// MarketImplications summarizes expected market reaction.
type MarketImplications struct {
	LikelyMarketReaction string   `json:"likely_market_reaction,omitempty"`
	KeyTakeaways         []string `json:"key_takeaways"`
	ComparisonToPeers    string   `json:"comparison_to_peers,omitempty"`
}

// HistoricalComparison captures cross-quarter trends when prior reports were
// available as context.
type HistoricalComparison struct {
	Trends         string   `json:"trends,omitempty"`
	ImprovingAreas []string `json:"improving_areas"`
	DecliningAreas []string `json:"declining_areas"`
}

// TokenUsage records provider token counts for one call.
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
}

// AnalysisMetadata records provenance for a result. PersistenceFailed marks
// results that could not be archived; the analysis itself is still valid.
type AnalysisMetadata struct {
	AnalyzedAt        time.Time  `json:"analyzed_at"`
	Provider          string     `json:"provider"`
	Model             string     `json:"model"`
	TokenUsage        TokenUsage `json:"token_usage"`
	PersistenceFailed bool       `json:"persistence_failed,omitempty"`
}

// AnalysisResult is the structured output of one earnings analysis.
// Fields absent from the source text are nil or empty, never fabricated.
// Immutable once persisted.
type AnalysisResult struct {
	CompanyInfo          *CompanyInfo          `json:"company_info,omitempty"`
	FinancialMetrics     *FinancialMetrics     `json:"financial_metrics,omitempty" validate:"omitempty"`
	KeyHighlights        []string              `json:"key_highlights"`
	ConcernsRisks        []string              `json:"concerns_risks"`
	SentimentAnalysis    *SentimentAnalysis    `json:"sentiment_analysis,omitempty" validate:"omitempty"`
	BusinessSegments     []BusinessSegment     `json:"business_segments"`
	NotableQuotes        []NotableQuote        `json:"notable_quotes"`
	MarketImplications   *MarketImplications   `json:"market_implications,omitempty"`
	HistoricalComparison *HistoricalComparison `json:"historical_comparison,omitempty"`
	RedFlags             []string              `json:"red_flags"`
	AnalystSummary       string                `json:"analyst_summary,omitempty"`
	Metadata             *AnalysisMetadata     `json:"metadata,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the result against the schema contract: bounded scores,
// closed enum values. Nested structs are validated recursively.
func (r *AnalysisResult) Validate() error {
	return validate.Struct(r)
}

// CompanyName returns the extracted company name, or "" when unknown.
func (r *AnalysisResult) CompanyName() string {
	if r.CompanyInfo == nil {
		return ""
	}
	return r.CompanyInfo.Name
}

// SentimentScore returns the sentiment score, or 0 when not extracted.
func (r *AnalysisResult) SentimentScore() int {
	if r.SentimentAnalysis == nil || r.SentimentAnalysis.SentimentScore == nil {
		return 0
	}
	return *r.SentimentAnalysis.SentimentScore
}
