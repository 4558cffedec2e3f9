package gait

import (
	"time"

	"github.com/strut-data/gait.report/internal/config"
)

// Config holds the resolved tuning parameters for the analysis pipeline.
type Config struct {
	MaxTrajectoryLength int   `json:"max_trajectory_length"` // Buffer cap before batched eviction kicks in
	BatchEvictionSize   int   `json:"batch_eviction_size"`   // Samples evicted from the front per eviction
	UpdateIntervalMs    int64 `json:"update_interval_ms"`    // Minimum gap between accepted samples (throttle)
	MinAnalysisPoints   int   `json:"min_analysis_points"`   // Floor for the coarse current analysis
	MinClassifyPoints   int   `json:"min_classify_points"`   // Floor for full classification

	// Confidence thresholds
	LandmarkVisibilityThreshold float64 `json:"landmark_visibility_threshold"` // Per-landmark inclusion in the CoG estimate
	MetricsConfidenceThreshold  float64 `json:"metrics_confidence_threshold"`  // Per-sample inclusion in metrics/stability
	HighConfidenceThreshold     float64 `json:"high_confidence_threshold"`     // "High-confidence" cut for data quality

	// Classifier base thresholds (scaled adaptively per window)
	CatwalkThreshold float64 `json:"catwalk_threshold"`
	DrunkThreshold   float64 `json:"drunk_threshold"`

	// Coarse analysis dead zone: stable at or above StableScoreMin,
	// unstable at or below UnstableScoreMax, unknown in between.
	StableScoreMin   float64 `json:"stable_score_min"`
	UnstableScoreMax float64 `json:"unstable_score_max"`

	// Visualization
	VizCacheTTL  time.Duration `json:"viz_cache_ttl"`
	VizMaxPoints int           `json:"viz_max_points"`

	// Service cadence
	AnalysisInterval     time.Duration `json:"analysis_interval"`      // Minimum gap between classification recomputes
	ClassifyPushInterval time.Duration `json:"classify_push_interval"` // Websocket push period
	ScoreHistoryLength   int           `json:"score_history_length"`   // Classification history ring size
}

// DefaultConfig returns pipeline configuration loaded from the canonical
// tuning defaults file (config/tuning.defaults.json). Panics if the file
// cannot be found - intended for tests and binaries that have already
// validated config availability.
func DefaultConfig() Config {
	return ConfigFromTuning(config.MustLoadDefaultConfig())
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
// Use this in production code where the TuningConfig is already loaded.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		MaxTrajectoryLength:         cfg.GetMaxTrajectoryLength(),
		BatchEvictionSize:           cfg.GetBatchEvictionSize(),
		UpdateIntervalMs:            cfg.GetUpdateIntervalMs(),
		MinAnalysisPoints:           cfg.GetMinAnalysisPoints(),
		MinClassifyPoints:           cfg.GetMinClassifyPoints(),
		LandmarkVisibilityThreshold: cfg.GetLandmarkVisibilityThreshold(),
		MetricsConfidenceThreshold:  cfg.GetMetricsConfidenceThreshold(),
		HighConfidenceThreshold:     cfg.GetHighConfidenceThreshold(),
		CatwalkThreshold:            cfg.GetCatwalkThreshold(),
		DrunkThreshold:              cfg.GetDrunkThreshold(),
		StableScoreMin:              cfg.GetStableScoreMin(),
		UnstableScoreMax:            cfg.GetUnstableScoreMax(),
		VizCacheTTL:                 cfg.GetVizCacheTTL(),
		VizMaxPoints:                cfg.GetVizMaxPoints(),
		AnalysisInterval:            cfg.GetAnalysisInterval(),
		ClassifyPushInterval:        cfg.GetClassifyPushInterval(),
		ScoreHistoryLength:          cfg.GetScoreHistoryLength(),
	}
}

// ApplyTuning overlays any set fields of a partial TuningConfig onto c.
// Used by the runtime params endpoint: fields omitted from the update
// keep their current values.
func (c *Config) ApplyTuning(t *config.TuningConfig) {
	if t.MaxTrajectoryLength != nil {
		c.MaxTrajectoryLength = *t.MaxTrajectoryLength
	}
	if t.BatchEvictionSize != nil {
		c.BatchEvictionSize = *t.BatchEvictionSize
	}
	if t.UpdateIntervalMs != nil {
		c.UpdateIntervalMs = *t.UpdateIntervalMs
	}
	if t.MinAnalysisPoints != nil {
		c.MinAnalysisPoints = *t.MinAnalysisPoints
	}
	if t.MinClassifyPoints != nil {
		c.MinClassifyPoints = *t.MinClassifyPoints
	}
	if t.LandmarkVisibilityThreshold != nil {
		c.LandmarkVisibilityThreshold = *t.LandmarkVisibilityThreshold
	}
	if t.MetricsConfidenceThreshold != nil {
		c.MetricsConfidenceThreshold = *t.MetricsConfidenceThreshold
	}
	if t.HighConfidenceThreshold != nil {
		c.HighConfidenceThreshold = *t.HighConfidenceThreshold
	}
	if t.CatwalkThreshold != nil {
		c.CatwalkThreshold = *t.CatwalkThreshold
	}
	if t.DrunkThreshold != nil {
		c.DrunkThreshold = *t.DrunkThreshold
	}
	if t.StableScoreMin != nil {
		c.StableScoreMin = *t.StableScoreMin
	}
	if t.UnstableScoreMax != nil {
		c.UnstableScoreMax = *t.UnstableScoreMax
	}
	if t.VizCacheTTL != nil {
		c.VizCacheTTL = t.GetVizCacheTTL()
	}
	if t.VizMaxPoints != nil {
		c.VizMaxPoints = *t.VizMaxPoints
	}
	if t.AnalysisInterval != nil {
		c.AnalysisInterval = t.GetAnalysisInterval()
	}
	if t.ClassifyPushInterval != nil {
		c.ClassifyPushInterval = t.GetClassifyPushInterval()
	}
	if t.ScoreHistoryLength != nil {
		c.ScoreHistoryLength = *t.ScoreHistoryLength
	}
}
