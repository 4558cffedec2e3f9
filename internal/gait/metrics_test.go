package gait

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/strut-data/gait.report/internal/pose"
)

func TestComputeMetricsBelowFloor(t *testing.T) {
	t.Parallel()

	samples := walkSamples(2, 0.1, 0.1, 0.05, 0.05, 1000, 150, 0.9)
	assert.Equal(t, Metrics{}, ComputeMetrics(samples, 0.6))
}

func TestComputeMetricsLinearTrajectory(t *testing.T) {
	t.Parallel()

	samples := walkSamples(8, 0.1, 0.1, 0.05, 0.05, 1000, 150, 0.9)
	m := ComputeMetrics(samples, 0.6)

	// A perfect diagonal has R^2 of exactly 1.
	assert.InDelta(t, 1.0, m.LinearityIndex, 1e-9)
	// Constant step over constant interval means constant speed.
	assert.InDelta(t, 0.0, m.VelocityVariation, 1e-9)
	assert.Greater(t, m.StandardDeviation, 0.0)
	assert.Greater(t, m.CoefficientOfVariation, 0.0)
}

func TestComputeMetricsChaoticTrajectory(t *testing.T) {
	t.Parallel()

	m := ComputeMetrics(cornerSamples(1000, 150, 0.9), 0.6)

	assert.Less(t, m.LinearityIndex, 0.5)
	assert.Greater(t, m.StandardDeviation, 0.3)
}

func TestComputeMetricsDegenerateX(t *testing.T) {
	t.Parallel()

	// Vertical trajectory: x constant, y moving. Linearity must be 0, not NaN.
	samples := walkSamples(6, 0.5, 0.1, 0.0, 0.1, 1000, 150, 0.9)
	m := ComputeMetrics(samples, 0.6)

	assert.Equal(t, 0.0, m.LinearityIndex)
}

func TestComputeMetricsConfidenceFallback(t *testing.T) {
	t.Parallel()

	// Only 2 of 6 samples pass the confidence filter; the engine must fall
	// back to the unfiltered set instead of reporting zeros.
	samples := walkSamples(6, 0.1, 0.1, 0.05, 0.05, 1000, 150, 0.4)
	samples[0].Confidence = 0.9
	samples[1].Confidence = 0.9

	m := ComputeMetrics(samples, 0.6)
	assert.InDelta(t, 1.0, m.LinearityIndex, 1e-9)
}

func TestVelocityVariationSkipsZeroGaps(t *testing.T) {
	t.Parallel()

	samples := []pose.CenterOfGravity{
		{X: 0.1, Y: 0.1, TimestampMs: 1000, Confidence: 0.9},
		{X: 0.2, Y: 0.2, TimestampMs: 1000, Confidence: 0.9}, // zero gap, skipped
		{X: 0.3, Y: 0.3, TimestampMs: 1300, Confidence: 0.9},
	}
	m := ComputeMetrics(samples, 0.6)

	// Only one valid step remains, below the 2-step floor.
	assert.Equal(t, 0.0, m.VelocityVariation)
}

func TestComputeMetricsStationary(t *testing.T) {
	t.Parallel()

	// Standing still: zero dispersion, zero variation, degenerate regression.
	samples := walkSamples(6, 0.5, 0.5, 0.0, 0.0, 1000, 150, 0.9)
	m := ComputeMetrics(samples, 0.6)

	assert.Equal(t, 0.0, m.StandardDeviation)
	assert.Equal(t, 0.0, m.LinearityIndex)
	assert.Equal(t, 0.0, m.VelocityVariation)
}
