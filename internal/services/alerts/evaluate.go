// Package alerts derives threshold alerts from analysis results. Evaluation
// is a pure function: same result and thresholds, same alerts, in rule
// declaration order.
package alerts

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ternarybob/lucrum/internal/models"
)

var numberPattern = regexp.MustCompile(`[\d.]+`)

// Evaluate runs every configured rule against the result. Unconfigured
// rules (nil threshold) never fire. Alerts come back in declaration order:
// eps_beat, sentiment_min, red_flag_count_max, no_guidance.
func Evaluate(result *models.AnalysisResult, thresholds models.Thresholds) []models.Alert {
	var out []models.Alert

	if a := evalEPSBeat(result, thresholds.EPSBeatThreshold); a != nil {
		out = append(out, *a)
	}
	if a := evalSentiment(result, thresholds.SentimentMin); a != nil {
		out = append(out, *a)
	}
	if a := evalRedFlags(result, thresholds.RedFlagCountMax); a != nil {
		out = append(out, *a)
	}
	if a := evalGuidance(result, thresholds.GuidanceRequired); a != nil {
		out = append(out, *a)
	}

	return out
}

// evalEPSBeat fires when reported EPS beat expectations by more than the
// threshold percent. A gap above twice the threshold escalates to critical.
func evalEPSBeat(result *models.AnalysisResult, threshold *float64) *models.Alert {
	if threshold == nil {
		return nil
	}
	if result.FinancialMetrics == nil || result.FinancialMetrics.Earnings == nil {
		return nil
	}
	earnings := result.FinancialMetrics.Earnings
	if earnings.BeatMiss != "beat" {
		return nil
	}

	reported, okR := firstNumber(earnings.EPSReported)
	expected, okE := firstNumber(earnings.EPSExpected)
	if !okR || !okE || expected == 0 {
		return nil
	}

	beatPercent := (reported - expected) / expected * 100
	if beatPercent <= *threshold {
		return nil
	}

	severity := models.SeverityHigh
	if beatPercent > 2**threshold {
		severity = models.SeverityCritical
	}
	return &models.Alert{
		Rule:     "eps_beat",
		Severity: severity,
		Message:  fmt.Sprintf("EPS beat expectations by %.1f%%", beatPercent),
		Value:    beatPercent,
	}
}

// evalSentiment fires when the sentiment score falls below the minimum.
// Below half the minimum escalates to critical.
func evalSentiment(result *models.AnalysisResult, min *int) *models.Alert {
	if min == nil {
		return nil
	}
	if result.SentimentAnalysis == nil || result.SentimentAnalysis.SentimentScore == nil {
		return nil
	}

	score := *result.SentimentAnalysis.SentimentScore
	if score >= *min {
		return nil
	}

	severity := models.SeverityMedium
	if score*2 < *min {
		severity = models.SeverityCritical
	}
	return &models.Alert{
		Rule:     "sentiment_min",
		Severity: severity,
		Message:  fmt.Sprintf("Sentiment score below threshold: %d", score),
		Value:    float64(score),
	}
}

// evalRedFlags fires when the red-flag count exceeds the maximum. More than
// twice the maximum escalates to critical.
func evalRedFlags(result *models.AnalysisResult, max *int) *models.Alert {
	if max == nil {
		return nil
	}

	count := len(result.RedFlags)
	if count <= *max {
		return nil
	}

	severity := models.SeverityHigh
	if count > 2**max {
		severity = models.SeverityCritical
	}
	return &models.Alert{
		Rule:     "red_flag_count_max",
		Severity: severity,
		Message:  fmt.Sprintf("%d red flag(s) identified", count),
		Value:    float64(count),
	}
}

// evalGuidance fires an informational alert when forward guidance was not
// provided. Guidance explicitly withheld and guidance missing from the
// report both count as not provided.
func evalGuidance(result *models.AnalysisResult, required bool) *models.Alert {
	if !required {
		return nil
	}
	if result.FinancialMetrics != nil {
		if g := result.FinancialMetrics.Guidance; g != nil && g.Provided != nil && *g.Provided {
			return nil
		}
	}
	return &models.Alert{
		Rule:     "no_guidance",
		Severity: models.SeverityInfo,
		Message:  "Company did not provide forward guidance",
	}
}

// firstNumber pulls the first numeric token out of a figure string such as
// "$5.22" or "5.16 per share".
func firstNumber(s string) (float64, bool) {
	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
