package models

import "time"

// StoredReport is a persisted analysis with its embedding vector. Owned by
// the report store: created on successful analysis, read-only thereafter,
// never deleted by the application.
type StoredReport struct {
	ID             string          `json:"id" badgerhold:"key"`
	Company        string          `json:"company" badgerhold:"index"`
	Ticker         string          `json:"ticker,omitempty"`
	Quarter        string          `json:"quarter,omitempty"`
	SentimentScore int             `json:"sentiment_score"`
	Document       string          `json:"document"` // text projection that was embedded
	Embedding      []float32       `json:"-"`
	Analysis       *AnalysisResult `json:"analysis"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ScoredReport pairs a stored report with its similarity to a query.
type ScoredReport struct {
	Report    *StoredReport `json:"report"`
	Relevance float64       `json:"relevance"`
}

// HistoryEntry is the list-view projection of a stored report.
type HistoryEntry struct {
	ID             string    `json:"id"`
	Company        string    `json:"company"`
	Ticker         string    `json:"ticker,omitempty"`
	Quarter        string    `json:"quarter,omitempty"`
	SentimentScore int       `json:"sentiment_score"`
	CreatedAt      time.Time `json:"timestamp"`
}

// CompanyMetricPoint is one period's metrics for trend charting.
type CompanyMetricPoint struct {
	ID             string    `json:"id"`
	Quarter        string    `json:"quarter,omitempty"`
	Revenue        string    `json:"revenue,omitempty"`
	EPSReported    string    `json:"eps_reported,omitempty"`
	GrossMargin    string    `json:"gross_margin,omitempty"`
	SentimentScore int       `json:"sentiment_score"`
	CreatedAt      time.Time `json:"timestamp"`
}

// HistoryEntry builds the list-view projection of the report.
func (r *StoredReport) HistoryEntry() HistoryEntry {
	return HistoryEntry{
		ID:             r.ID,
		Company:        r.Company,
		Ticker:         r.Ticker,
		Quarter:        r.Quarter,
		SentimentScore: r.SentimentScore,
		CreatedAt:      r.CreatedAt,
	}
}

// MetricPoint builds the charting projection of the report.
func (r *StoredReport) MetricPoint() CompanyMetricPoint {
	point := CompanyMetricPoint{
		ID:             r.ID,
		Quarter:        r.Quarter,
		SentimentScore: r.SentimentScore,
		CreatedAt:      r.CreatedAt,
	}
	if r.Analysis != nil && r.Analysis.FinancialMetrics != nil {
		if rev := r.Analysis.FinancialMetrics.Revenue; rev != nil {
			point.Revenue = rev.Current
		}
		if earn := r.Analysis.FinancialMetrics.Earnings; earn != nil {
			point.EPSReported = earn.EPSReported
		}
		if m := r.Analysis.FinancialMetrics.Margins; m != nil {
			point.GrossMargin = m.GrossMargin
		}
	}
	return point
}

// QuerySource cites one stored report used to answer a cross-report query.
type QuerySource struct {
	ID        string  `json:"id"`
	Company   string  `json:"company"`
	Quarter   string  `json:"quarter,omitempty"`
	Relevance float64 `json:"relevance"`
	Summary   string  `json:"summary,omitempty"`
}

// QueryResult is the answer to a natural-language question over the store.
type QueryResult struct {
	Answer     string        `json:"answer"`
	Confidence string        `json:"confidence,omitempty" validate:"omitempty,oneof=high medium low"`
	Sources    []QuerySource `json:"sources,omitempty"`
	Limitation string        `json:"limitations,omitempty"`
}
