package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestEmptyConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := EmptyTuningConfig()

	assert.Equal(t, 100, cfg.GetMaxTrajectoryLength())
	assert.Equal(t, 20, cfg.GetBatchEvictionSize())
	assert.Equal(t, int64(120), cfg.GetUpdateIntervalMs())
	assert.Equal(t, 6, cfg.GetMinAnalysisPoints())
	assert.Equal(t, 5, cfg.GetMinClassifyPoints())
	assert.InDelta(t, 0.5, cfg.GetLandmarkVisibilityThreshold(), 1e-9)
	assert.InDelta(t, 0.6, cfg.GetMetricsConfidenceThreshold(), 1e-9)
	assert.InDelta(t, 0.8, cfg.GetHighConfidenceThreshold(), 1e-9)
	assert.InDelta(t, 78.0, cfg.GetCatwalkThreshold(), 1e-9)
	assert.InDelta(t, 32.0, cfg.GetDrunkThreshold(), 1e-9)
	assert.InDelta(t, 70.0, cfg.GetStableScoreMin(), 1e-9)
	assert.InDelta(t, 60.0, cfg.GetUnstableScoreMax(), 1e-9)
	assert.Equal(t, "200ms", cfg.GetVizCacheTTL().String())
	assert.Equal(t, 30, cfg.GetVizMaxPoints())
	assert.Equal(t, "800ms", cfg.GetAnalysisInterval().String())
	assert.Equal(t, "600ms", cfg.GetClassifyPushInterval().String())
	assert.Equal(t, 120, cfg.GetScoreHistoryLength())
}

func TestLoadTuningConfigPartial(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, `{"catwalk_threshold": 85, "update_interval_ms": 200}`)

	cfg, err := LoadTuningConfig(path)
	require.NoError(t, err)

	// Overridden fields
	assert.InDelta(t, 85.0, cfg.GetCatwalkThreshold(), 1e-9)
	assert.Equal(t, int64(200), cfg.GetUpdateIntervalMs())

	// Omitted fields keep defaults
	assert.InDelta(t, 32.0, cfg.GetDrunkThreshold(), 1e-9)
	assert.Equal(t, 100, cfg.GetMaxTrajectoryLength())
}

func TestLoadTuningConfigRejectsNonJSON(t *testing.T) {
	t.Parallel()

	_, err := LoadTuningConfig("tuning.yaml")
	assert.Error(t, err)
}

func TestLoadTuningConfigRejectsBadJSON(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, `{"catwalk_threshold": `)
	_, err := LoadTuningConfig(path)
	assert.Error(t, err)
}

func TestValidateRanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		contents string
	}{
		{"visibility threshold above one", `{"landmark_visibility_threshold": 1.5}`},
		{"negative confidence threshold", `{"metrics_confidence_threshold": -0.1}`},
		{"catwalk threshold above 100", `{"catwalk_threshold": 120}`},
		{"zero max trajectory length", `{"max_trajectory_length": 0}`},
		{"min analysis points below two", `{"min_analysis_points": 1}`},
		{"bad cache ttl", `{"viz_cache_ttl": "soon"}`},
		{"bad analysis interval", `{"analysis_interval": "yesterday"}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeTempConfig(t, tt.contents)
			_, err := LoadTuningConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := MustLoadDefaultConfig()
	require.NotNil(t, cfg)

	// The defaults file should agree with the accessor fallbacks.
	assert.InDelta(t, 78.0, cfg.GetCatwalkThreshold(), 1e-9)
	assert.Equal(t, 6, cfg.GetMinAnalysisPoints())
}
