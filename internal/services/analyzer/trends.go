package analyzer

import (
	"github.com/ternarybob/lucrum/internal/models"
)

// metricSelector names one comparable metric and how to read it off a
// result.
type metricSelector struct {
	name string
	get  func(*models.AnalysisResult) string
}

var comparedMetrics = []metricSelector{
	{"revenue", func(r *models.AnalysisResult) string {
		if m := metricsOf(r); m != nil && m.Revenue != nil {
			return m.Revenue.Current
		}
		return ""
	}},
	{"eps", func(r *models.AnalysisResult) string {
		if m := metricsOf(r); m != nil && m.Earnings != nil {
			return m.Earnings.EPSReported
		}
		return ""
	}},
	{"net_income", func(r *models.AnalysisResult) string {
		if m := metricsOf(r); m != nil && m.Earnings != nil {
			return m.Earnings.NetIncome
		}
		return ""
	}},
	{"gross_margin", func(r *models.AnalysisResult) string {
		if m := metricsOf(r); m != nil && m.Margins != nil {
			return m.Margins.GrossMargin
		}
		return ""
	}},
	{"operating_margin", func(r *models.AnalysisResult) string {
		if m := metricsOf(r); m != nil && m.Margins != nil {
			return m.Margins.OperatingMargin
		}
		return ""
	}},
	{"net_margin", func(r *models.AnalysisResult) string {
		if m := metricsOf(r); m != nil && m.Margins != nil {
			return m.Margins.NetMargin
		}
		return ""
	}},
}

func metricsOf(r *models.AnalysisResult) *models.FinancialMetrics {
	if r == nil {
		return nil
	}
	return r.FinancialMetrics
}

// ComputeMetricTrends compares each known metric across two analyses.
// Values that fail to parse as magnitudes produce an "indeterminate"
// direction; they are never coerced to zero.
func ComputeMetricTrends(current, previous *models.AnalysisResult) []models.MetricTrend {
	var trends []models.MetricTrend
	for _, metric := range comparedMetrics {
		curStr := metric.get(current)
		prevStr := metric.get(previous)
		if curStr == "" && prevStr == "" {
			continue
		}
		trends = append(trends, compareMetric(metric.name, curStr, prevStr))
	}
	return trends
}

func compareMetric(name, curStr, prevStr string) models.MetricTrend {
	trend := models.MetricTrend{
		Metric:    name,
		Current:   curStr,
		Previous:  prevStr,
		Direction: models.TrendIndeterminate,
	}

	cur, okCur := parseMagnitude(curStr)
	prev, okPrev := parseMagnitude(prevStr)
	if !okCur || !okPrev {
		return trend
	}

	switch cur.Cmp(prev) {
	case 1:
		trend.Direction = models.TrendUp
	case -1:
		trend.Direction = models.TrendDown
	default:
		trend.Direction = models.TrendFlat
	}

	if !prev.IsZero() {
		change, _ := cur.Sub(prev).Div(prev).Mul(decimalHundred).Float64()
		trend.ChangePercent = &change
	}
	return trend
}
