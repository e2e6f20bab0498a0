package models

// Trend direction values for locally computed metric trends.
const (
	TrendUp            = "up"
	TrendDown          = "down"
	TrendFlat          = "flat"
	TrendIndeterminate = "indeterminate"
)

// TrendAnalysis holds the LLM's qualitative trend assessment.
type TrendAnalysis struct {
	RevenueTrend       string `json:"revenue_trend,omitempty" validate:"omitempty,oneof=improving declining stable"`
	ProfitabilityTrend string `json:"profitability_trend,omitempty" validate:"omitempty,oneof=improving declining stable"`
	MarginTrend        string `json:"margin_trend,omitempty" validate:"omitempty,oneof=expanding contracting stable"`
}

// Momentum lists areas accelerating or decelerating between periods.
type Momentum struct {
	Accelerating []string `json:"accelerating,omitempty"`
	Decelerating []string `json:"decelerating,omitempty"`
}

// MetricTrend is a locally computed comparison of one metric across two
// reports. Direction is "indeterminate" when either value cannot be parsed
// into a comparable magnitude; it is never silently zero.
type MetricTrend struct {
	Metric        string   `json:"metric"`
	Current       string   `json:"current,omitempty"`
	Previous      string   `json:"previous,omitempty"`
	Direction     string   `json:"direction"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
}

// ComparisonResult compares two earnings reports for the same company.
// Created on demand; not persisted.
type ComparisonResult struct {
	Current             *CompanyInfo   `json:"current,omitempty"`
	Previous            *CompanyInfo   `json:"previous,omitempty"`
	TrendAnalysis       *TrendAnalysis `json:"trend_analysis,omitempty" validate:"omitempty"`
	KeyChanges          []string       `json:"key_changes,omitempty"`
	Momentum            *Momentum      `json:"momentum,omitempty"`
	ManagementToneShift string         `json:"management_tone_shift,omitempty"`
	StrategicShifts     []string       `json:"strategic_shifts,omitempty"`
	ComparativeSummary  string         `json:"comparative_summary,omitempty"`
	MetricTrends        []MetricTrend  `json:"metric_trends,omitempty"`
}

// Validate checks the comparison against the schema contract.
func (c *ComparisonResult) Validate() error {
	return validate.Struct(c)
}
