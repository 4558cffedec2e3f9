package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for tuning parameters.
// The schema matches the /api/params endpoint so the same JSON can be
// used for both startup configuration and runtime updates. Every knob
// the analysis pipeline exposes lives here; fields omitted from the
// JSON retain their defaults via the Get* accessors.
type TuningConfig struct {
	// Trajectory buffer params
	MaxTrajectoryLength *int   `json:"max_trajectory_length,omitempty"`
	BatchEvictionSize   *int   `json:"batch_eviction_size,omitempty"`
	UpdateIntervalMs    *int64 `json:"update_interval_ms,omitempty"`
	MinAnalysisPoints   *int   `json:"min_analysis_points,omitempty"`

	// Confidence thresholds
	LandmarkVisibilityThreshold *float64 `json:"landmark_visibility_threshold,omitempty"`
	MetricsConfidenceThreshold  *float64 `json:"metrics_confidence_threshold,omitempty"`
	HighConfidenceThreshold     *float64 `json:"high_confidence_threshold,omitempty"`

	// Classifier params
	MinClassifyPoints *int     `json:"min_classify_points,omitempty"`
	CatwalkThreshold  *float64 `json:"catwalk_threshold,omitempty"`
	DrunkThreshold    *float64 `json:"drunk_threshold,omitempty"`

	// Coarse analysis dead zone. Tuned independently of the classifier
	// thresholds above; the two are not required to agree.
	StableScoreMin   *float64 `json:"stable_score_min,omitempty"`
	UnstableScoreMax *float64 `json:"unstable_score_max,omitempty"`

	// Visualization params
	VizCacheTTL  *string `json:"viz_cache_ttl,omitempty"` // duration string like "200ms"
	VizMaxPoints *int    `json:"viz_max_points,omitempty"`

	// Service cadence params
	AnalysisInterval     *string `json:"analysis_interval,omitempty"`      // duration string like "800ms"
	ClassifyPushInterval *string `json:"classify_push_interval,omitempty"` // duration string like "600ms"
	ScoreHistoryLength   *int    `json:"score_history_length,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	// Try paths from current dir up to repo root
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.MaxTrajectoryLength != nil && *c.MaxTrajectoryLength < 1 {
		return fmt.Errorf("max_trajectory_length must be positive, got %d", *c.MaxTrajectoryLength)
	}
	if c.BatchEvictionSize != nil && *c.BatchEvictionSize < 1 {
		return fmt.Errorf("batch_eviction_size must be positive, got %d", *c.BatchEvictionSize)
	}
	if c.UpdateIntervalMs != nil && *c.UpdateIntervalMs < 0 {
		return fmt.Errorf("update_interval_ms must be non-negative, got %d", *c.UpdateIntervalMs)
	}
	if c.MinAnalysisPoints != nil && *c.MinAnalysisPoints < 2 {
		return fmt.Errorf("min_analysis_points must be at least 2, got %d", *c.MinAnalysisPoints)
	}

	for name, v := range map[string]*float64{
		"landmark_visibility_threshold": c.LandmarkVisibilityThreshold,
		"metrics_confidence_threshold":  c.MetricsConfidenceThreshold,
		"high_confidence_threshold":     c.HighConfidenceThreshold,
	} {
		if v != nil && (*v < 0 || *v > 1) {
			return fmt.Errorf("%s must be between 0 and 1, got %f", name, *v)
		}
	}

	for name, v := range map[string]*float64{
		"catwalk_threshold":  c.CatwalkThreshold,
		"drunk_threshold":    c.DrunkThreshold,
		"stable_score_min":   c.StableScoreMin,
		"unstable_score_max": c.UnstableScoreMax,
	} {
		if v != nil && (*v < 0 || *v > 100) {
			return fmt.Errorf("%s must be between 0 and 100, got %f", name, *v)
		}
	}

	for name, v := range map[string]*string{
		"viz_cache_ttl":          c.VizCacheTTL,
		"analysis_interval":      c.AnalysisInterval,
		"classify_push_interval": c.ClassifyPushInterval,
	} {
		if v != nil && *v != "" {
			if _, err := time.ParseDuration(*v); err != nil {
				return fmt.Errorf("invalid %s '%s': %w", name, *v, err)
			}
		}
	}

	return nil
}

// GetMaxTrajectoryLength returns the max_trajectory_length value or the default.
func (c *TuningConfig) GetMaxTrajectoryLength() int {
	if c.MaxTrajectoryLength == nil {
		return 100
	}
	return *c.MaxTrajectoryLength
}

// GetBatchEvictionSize returns the batch_eviction_size value or the default.
func (c *TuningConfig) GetBatchEvictionSize() int {
	if c.BatchEvictionSize == nil {
		return 20
	}
	return *c.BatchEvictionSize
}

// GetUpdateIntervalMs returns the update_interval_ms value or the default.
func (c *TuningConfig) GetUpdateIntervalMs() int64 {
	if c.UpdateIntervalMs == nil {
		return 120
	}
	return *c.UpdateIntervalMs
}

// GetMinAnalysisPoints returns the min_analysis_points value or the default.
func (c *TuningConfig) GetMinAnalysisPoints() int {
	if c.MinAnalysisPoints == nil {
		return 6
	}
	return *c.MinAnalysisPoints
}

// GetLandmarkVisibilityThreshold returns the landmark_visibility_threshold value or the default.
func (c *TuningConfig) GetLandmarkVisibilityThreshold() float64 {
	if c.LandmarkVisibilityThreshold == nil {
		return 0.5
	}
	return *c.LandmarkVisibilityThreshold
}

// GetMetricsConfidenceThreshold returns the metrics_confidence_threshold value or the default.
func (c *TuningConfig) GetMetricsConfidenceThreshold() float64 {
	if c.MetricsConfidenceThreshold == nil {
		return 0.6
	}
	return *c.MetricsConfidenceThreshold
}

// GetHighConfidenceThreshold returns the high_confidence_threshold value or the default.
func (c *TuningConfig) GetHighConfidenceThreshold() float64 {
	if c.HighConfidenceThreshold == nil {
		return 0.8
	}
	return *c.HighConfidenceThreshold
}

// GetMinClassifyPoints returns the min_classify_points value or the default.
func (c *TuningConfig) GetMinClassifyPoints() int {
	if c.MinClassifyPoints == nil {
		return 5
	}
	return *c.MinClassifyPoints
}

// GetCatwalkThreshold returns the catwalk_threshold value or the default.
func (c *TuningConfig) GetCatwalkThreshold() float64 {
	if c.CatwalkThreshold == nil {
		return 78
	}
	return *c.CatwalkThreshold
}

// GetDrunkThreshold returns the drunk_threshold value or the default.
func (c *TuningConfig) GetDrunkThreshold() float64 {
	if c.DrunkThreshold == nil {
		return 32
	}
	return *c.DrunkThreshold
}

// GetStableScoreMin returns the stable_score_min value or the default.
func (c *TuningConfig) GetStableScoreMin() float64 {
	if c.StableScoreMin == nil {
		return 70
	}
	return *c.StableScoreMin
}

// GetUnstableScoreMax returns the unstable_score_max value or the default.
func (c *TuningConfig) GetUnstableScoreMax() float64 {
	if c.UnstableScoreMax == nil {
		return 60
	}
	return *c.UnstableScoreMax
}

// GetVizCacheTTL parses and returns the VizCacheTTL as a time.Duration.
func (c *TuningConfig) GetVizCacheTTL() time.Duration {
	if c.VizCacheTTL == nil || *c.VizCacheTTL == "" {
		return 200 * time.Millisecond
	}
	d, err := time.ParseDuration(*c.VizCacheTTL)
	if err != nil {
		return 200 * time.Millisecond
	}
	return d
}

// GetVizMaxPoints returns the viz_max_points value or the default.
func (c *TuningConfig) GetVizMaxPoints() int {
	if c.VizMaxPoints == nil {
		return 30
	}
	return *c.VizMaxPoints
}

// GetAnalysisInterval parses and returns the AnalysisInterval as a time.Duration.
func (c *TuningConfig) GetAnalysisInterval() time.Duration {
	if c.AnalysisInterval == nil || *c.AnalysisInterval == "" {
		return 800 * time.Millisecond
	}
	d, err := time.ParseDuration(*c.AnalysisInterval)
	if err != nil {
		return 800 * time.Millisecond
	}
	return d
}

// GetClassifyPushInterval parses and returns the ClassifyPushInterval as a time.Duration.
func (c *TuningConfig) GetClassifyPushInterval() time.Duration {
	if c.ClassifyPushInterval == nil || *c.ClassifyPushInterval == "" {
		return 600 * time.Millisecond
	}
	d, err := time.ParseDuration(*c.ClassifyPushInterval)
	if err != nil {
		return 600 * time.Millisecond
	}
	return d
}

// GetScoreHistoryLength returns the score_history_length value or the default.
func (c *TuningConfig) GetScoreHistoryLength() int {
	if c.ScoreHistoryLength == nil {
		return 120
	}
	return *c.ScoreHistoryLength
}
