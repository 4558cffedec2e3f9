package gait

// Pattern is the classifier's verdict on a trajectory window.
type Pattern string

const (
	// PatternCatwalk is stable, orderly walking: straight, low-dispersion,
	// regular cadence.
	PatternCatwalk Pattern = "catwalk"
	// PatternDrunk is unstable, erratic walking.
	PatternDrunk Pattern = "drunk"
	// PatternUnknown is the deliberate default when evidence is mixed.
	PatternUnknown Pattern = "unknown"
)

// Trend is the coarse stability signal from the tracker's current analysis.
// It is tuned independently of the classifier's Pattern thresholds.
type Trend string

const (
	TrendStable   Trend = "stable"
	TrendUnstable Trend = "unstable"
	TrendUnknown  Trend = "unknown"
)

// Metrics holds the derived statistics for one trajectory window.
// Recomputed on demand, never stored.
type Metrics struct {
	// StandardDeviation is the combined positional dispersion
	// sqrt(varX + varY), population variance.
	StandardDeviation float64 `json:"standard_deviation"`
	// CoefficientOfVariation is StandardDeviation relative to the mean
	// distance from the origin.
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	// LinearityIndex is the OLS R^2 of y regressed on x, in [0,1].
	LinearityIndex float64 `json:"linearity_index"`
	// VelocityVariation is the coefficient of variation of per-step speeds.
	VelocityVariation float64 `json:"velocity_variation"`
}

// TemporalConsistency describes the sampling cadence of a window.
type TemporalConsistency struct {
	// AverageIntervalMs is the mean gap between consecutive samples.
	AverageIntervalMs float64 `json:"average_interval_ms"`
	// IntervalVariation is the coefficient of variation of the gaps.
	IntervalVariation float64 `json:"interval_variation"`
	// IsConsistent is true when the cadence varies by at most 50% of its
	// mean. Windows with large sampling gaps corrupt velocity metrics and
	// are down-weighted by the classifier.
	IsConsistent bool `json:"is_consistent"`
}

// Scores is the 0-100 component breakdown behind a classification.
type Scores struct {
	Stability  float64 `json:"stability"`
	Regularity float64 `json:"regularity"`
	Linearity  float64 `json:"linearity"`
}

// Classification is the externally visible result of classifying a
// trajectory window.
type Classification struct {
	Pattern    Pattern `json:"pattern"`
	Confidence float64 `json:"confidence"`
	Scores     Scores  `json:"scores"`
}

// Analysis is the tracker's coarse stability read, distinct from the full
// classification. A nil *Analysis means the buffer is still collecting.
type Analysis struct {
	Trend          Trend   `json:"trend"`
	StabilityScore float64 `json:"stability_score"`
	SampleCount    int     `json:"sample_count"`
}

// Statistics summarizes the tracker's buffered history.
type Statistics struct {
	SampleCount    int     `json:"sample_count"`
	TimeSpanMs     int64   `json:"time_span_ms"`
	MeanConfidence float64 `json:"mean_confidence"`
	// DataQuality is a coarse label: "high", "medium", or "low".
	DataQuality string `json:"data_quality"`
}
