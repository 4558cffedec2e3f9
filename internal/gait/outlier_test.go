package gait

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strut-data/gait.report/internal/pose"
)

func TestFilterOutliersPassthroughBelowThree(t *testing.T) {
	t.Parallel()

	samples := walkSamples(2, 0.1, 0.1, 0.05, 0.05, 1000, 150, 0.9)
	assert.Len(t, FilterOutliers(samples), 2)
}

func TestFilterOutliersDropsExtremes(t *testing.T) {
	t.Parallel()

	// Four points clustered near (0.5, 0.4), two far outside the cluster.
	samples := []pose.CenterOfGravity{
		{X: 0.48, Y: 0.39, TimestampMs: 1000, Confidence: 0.9},
		{X: 0.49, Y: 0.40, TimestampMs: 1150, Confidence: 0.9},
		{X: 0.01, Y: 0.99, TimestampMs: 1300, Confidence: 0.9}, // outlier
		{X: 0.51, Y: 0.41, TimestampMs: 1450, Confidence: 0.9},
		{X: 0.99, Y: 0.01, TimestampMs: 1600, Confidence: 0.9}, // outlier
		{X: 0.52, Y: 0.40, TimestampMs: 1750, Confidence: 0.9},
	}

	filtered := FilterOutliers(samples)
	require.GreaterOrEqual(t, len(filtered), 4)
	for _, s := range filtered {
		assert.InDelta(t, 0.5, s.X, 0.1)
		assert.InDelta(t, 0.4, s.Y, 0.1)
	}
}

func TestFilterOutliersKeepsSmoothTrajectory(t *testing.T) {
	t.Parallel()

	samples := walkSamples(10, 0.1, 0.5, 0.05, 0.0, 1000, 150, 0.9)
	if diff := cmp.Diff(samples, FilterOutliers(samples)); diff != "" {
		t.Errorf("smooth trajectory altered by filter (-want +got):\n%s", diff)
	}
}

func TestFilterOutliersPreservesOrder(t *testing.T) {
	t.Parallel()

	samples := walkSamples(6, 0.2, 0.2, 0.03, 0.02, 1000, 150, 0.9)
	filtered := FilterOutliers(samples)
	require.NotEmpty(t, filtered)
	for i := 1; i < len(filtered); i++ {
		assert.Greater(t, filtered[i].TimestampMs, filtered[i-1].TimestampMs)
	}
}
