package alerts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/lucrum/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func resultWith(beatMiss, reported, expected string, sentiment int, redFlags []string) *models.AnalysisResult {
	return &models.AnalysisResult{
		FinancialMetrics: &models.FinancialMetrics{
			Earnings: &models.Earnings{
				BeatMiss:    beatMiss,
				EPSReported: reported,
				EPSExpected: expected,
			},
		},
		SentimentAnalysis: &models.SentimentAnalysis{SentimentScore: &sentiment},
		RedFlags:          redFlags,
	}
}

func TestEvaluateBeatAndLowSentiment(t *testing.T) {
	// beat of 8% over a 5% threshold plus sentiment 55 under a minimum of
	// 60 fires exactly two alerts, in rule order
	result := resultWith("beat", "$5.40", "$5.00", 55, nil)
	thresholds := models.Thresholds{
		EPSBeatThreshold: floatPtr(5),
		SentimentMin:     intPtr(60),
	}

	alerts := Evaluate(result, thresholds)
	require.Len(t, alerts, 2)

	assert.Equal(t, "eps_beat", alerts[0].Rule)
	assert.Equal(t, models.SeverityHigh, alerts[0].Severity)
	assert.InDelta(t, 8.0, alerts[0].Value, 0.01)

	assert.Equal(t, "sentiment_min", alerts[1].Rule)
	assert.Equal(t, models.SeverityMedium, alerts[1].Severity)
	assert.Equal(t, 55.0, alerts[1].Value)
}

func TestEvaluateHealthySentiment(t *testing.T) {
	result := resultWith("", "", "", 75, nil)
	alerts := Evaluate(result, models.Thresholds{SentimentMin: intPtr(60)})
	assert.Empty(t, alerts)
}

func TestEvaluateIsPure(t *testing.T) {
	result := resultWith("beat", "5.40", "5.00", 55, []string{"churn"})
	thresholds := models.Thresholds{
		EPSBeatThreshold: floatPtr(5),
		SentimentMin:     intPtr(60),
		RedFlagCountMax:  intPtr(0),
	}

	first := Evaluate(result, thresholds)
	second := Evaluate(result, thresholds)
	assert.Equal(t, first, second)
}

func TestEPSBeatSeverityTiers(t *testing.T) {
	thresholds := models.Thresholds{EPSBeatThreshold: floatPtr(5)}

	tests := []struct {
		name     string
		reported string
		want     string // "" means no alert
	}{
		{"below threshold", "$5.20", ""},    // 4%
		{"just above threshold", "$5.40", models.SeverityHigh},     // 8%
		{"more than double threshold", "$5.60", models.SeverityCritical}, // 12%
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := resultWith("beat", tt.reported, "$5.00", 90, nil)
			alerts := Evaluate(result, thresholds)
			if tt.want == "" {
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			assert.Equal(t, tt.want, alerts[0].Severity)
		})
	}
}

func TestEPSBeatRequiresBeat(t *testing.T) {
	thresholds := models.Thresholds{EPSBeatThreshold: floatPtr(1)}

	// a miss never fires regardless of magnitude
	result := resultWith("miss", "$6.00", "$5.00", 90, nil)
	assert.Empty(t, Evaluate(result, thresholds))

	// unparsable figures never fire
	result = resultWith("beat", "record", "N/A", 90, nil)
	assert.Empty(t, Evaluate(result, thresholds))
}

func TestSentimentCriticalBelowHalfMinimum(t *testing.T) {
	thresholds := models.Thresholds{SentimentMin: intPtr(60)}

	result := resultWith("", "", "", 25, nil)
	alerts := Evaluate(result, thresholds)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
}

func TestRedFlagTiers(t *testing.T) {
	thresholds := models.Thresholds{RedFlagCountMax: intPtr(2)}

	flags := []string{"a", "b"}
	assert.Empty(t, Evaluate(resultWith("", "", "", 90, flags), thresholds))

	flags = append(flags, "c")
	alerts := Evaluate(resultWith("", "", "", 90, flags), thresholds)
	require.Len(t, alerts, 1)
	assert.Equal(t, "red_flag_count_max", alerts[0].Rule)
	assert.Equal(t, models.SeverityHigh, alerts[0].Severity)

	flags = append(flags, "d", "e")
	alerts = Evaluate(resultWith("", "", "", 90, flags), thresholds)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
}

func TestNoGuidanceAlert(t *testing.T) {
	provided := true
	withGuidance := &models.AnalysisResult{
		FinancialMetrics: &models.FinancialMetrics{
			Guidance: &models.Guidance{Provided: &provided},
		},
	}
	assert.Empty(t, Evaluate(withGuidance, models.Thresholds{GuidanceRequired: true}))

	alerts := Evaluate(&models.AnalysisResult{}, models.Thresholds{GuidanceRequired: true})
	require.Len(t, alerts, 1)
	assert.Equal(t, "no_guidance", alerts[0].Rule)
	assert.Equal(t, models.SeverityInfo, alerts[0].Severity)
}

func TestUnconfiguredRulesNeverFire(t *testing.T) {
	result := resultWith("beat", "$9.00", "$5.00", 5, []string{"a", "b", "c"})
	assert.Empty(t, Evaluate(result, models.Thresholds{}))
}

func TestLoadThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"eps_beat_threshold: 5\nsentiment_min: 60\nred_flag_count_max: 2\nguidance_required: true\n"), 0644))

	thresholds, err := LoadThresholds(path)
	require.NoError(t, err)
	require.NotNil(t, thresholds.EPSBeatThreshold)
	assert.Equal(t, 5.0, *thresholds.EPSBeatThreshold)
	require.NotNil(t, thresholds.SentimentMin)
	assert.Equal(t, 60, *thresholds.SentimentMin)
	require.NotNil(t, thresholds.RedFlagCountMax)
	assert.Equal(t, 2, *thresholds.RedFlagCountMax)
	assert.True(t, thresholds.GuidanceRequired)

	empty, err := LoadThresholds("")
	require.NoError(t, err)
	assert.Nil(t, empty.EPSBeatThreshold)
}
