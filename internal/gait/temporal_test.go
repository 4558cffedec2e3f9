package gait

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/strut-data/gait.report/internal/pose"
)

func TestAnalyzeTemporalBelowFloor(t *testing.T) {
	t.Parallel()

	tc := AnalyzeTemporal(walkSamples(1, 0.5, 0.5, 0, 0, 1000, 150, 0.9))
	assert.Equal(t, TemporalConsistency{}, tc)
	assert.False(t, tc.IsConsistent)
}

func TestAnalyzeTemporalEvenCadence(t *testing.T) {
	t.Parallel()

	tc := AnalyzeTemporal(walkSamples(6, 0.1, 0.1, 0.05, 0.05, 1000, 150, 0.9))

	assert.InDelta(t, 150.0, tc.AverageIntervalMs, 1e-9)
	assert.InDelta(t, 0.0, tc.IntervalVariation, 1e-9)
	assert.True(t, tc.IsConsistent)
}

func TestAnalyzeTemporalWithStall(t *testing.T) {
	t.Parallel()

	// One large detector stall in an otherwise even cadence.
	samples := []pose.CenterOfGravity{
		{X: 0.1, Y: 0.1, TimestampMs: 1000, Confidence: 0.9},
		{X: 0.2, Y: 0.2, TimestampMs: 1150, Confidence: 0.9},
		{X: 0.3, Y: 0.3, TimestampMs: 1300, Confidence: 0.9},
		{X: 0.4, Y: 0.4, TimestampMs: 4300, Confidence: 0.9}, // 3s gap
		{X: 0.5, Y: 0.5, TimestampMs: 4450, Confidence: 0.9},
	}
	tc := AnalyzeTemporal(samples)

	assert.Greater(t, tc.IntervalVariation, 0.5)
	assert.False(t, tc.IsConsistent)
}
