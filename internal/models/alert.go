package models

// Alert severities, ordered by urgency.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityInfo     = "info"
)

// Alert is a derived, ephemeral record computed from one AnalysisResult and
// a threshold configuration. Not persisted.
type Alert struct {
	Rule     string  `json:"rule"`
	Severity string  `json:"severity"`
	Message  string  `json:"message"`
	Value    float64 `json:"value,omitempty"`
}

// Thresholds configures alert rules. Nil fields mean the rule is not
// configured and never fires.
type Thresholds struct {
	EPSBeatThreshold *float64 `json:"eps_beat_threshold,omitempty" yaml:"eps_beat_threshold"` // percent
	SentimentMin     *int     `json:"sentiment_min,omitempty" yaml:"sentiment_min"`           // 0-100
	RedFlagCountMax  *int     `json:"red_flag_count_max,omitempty" yaml:"red_flag_count_max"`
	GuidanceRequired bool     `json:"guidance_required,omitempty" yaml:"guidance_required"`
}
