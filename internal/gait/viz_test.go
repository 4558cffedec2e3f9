package gait

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strut-data/gait.report/internal/pose"
)

func TestBuildVisualizationEmpty(t *testing.T) {
	t.Parallel()

	viz := buildVisualization(nil, 30)
	assert.Empty(t, viz.Points)
	assert.Empty(t, viz.Path)
	assert.Equal(t, Bounds{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}, viz.Bounds)
}

func TestBuildVisualizationBoundsContainUnitSquare(t *testing.T) {
	t.Parallel()

	// Points confined to a small region must not shrink the viewport.
	viz := buildVisualization(walkSamples(5, 0.4, 0.4, 0.01, 0.01, 1000, 150, 0.9), 30)
	assert.Equal(t, Bounds{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}, viz.Bounds)
}

func TestBuildVisualizationBoundsExpand(t *testing.T) {
	t.Parallel()

	samples := []pose.CenterOfGravity{
		{X: -0.2, Y: 0.5, TimestampMs: 1000, Confidence: 0.9},
		{X: 0.5, Y: 1.3, TimestampMs: 1200, Confidence: 0.9},
	}
	viz := buildVisualization(samples, 30)
	assert.Equal(t, Bounds{MinX: -0.2, MinY: 0, MaxX: 1, MaxY: 1.3}, viz.Bounds)
}

func TestBuildVisualizationDownsamples(t *testing.T) {
	t.Parallel()

	viz := buildVisualization(walkSamples(100, 0.0, 0.0, 0.005, 0.005, 1000, 150, 0.9), 30)
	assert.LessOrEqual(t, len(viz.Points), 30)
	assert.Greater(t, len(viz.Points), 1)

	// The first buffered sample always survives downsampling.
	assert.Equal(t, 0.0, viz.Points[0].X)
}

func TestBuildVisualizationPathFormat(t *testing.T) {
	t.Parallel()

	samples := []pose.CenterOfGravity{
		{X: 0.1, Y: 0.2, TimestampMs: 1000, Confidence: 0.9},
		{X: 0.3, Y: 0.4, TimestampMs: 1200, Confidence: 0.9},
		{X: 0.5, Y: 0.6, TimestampMs: 1400, Confidence: 0.9},
	}
	viz := buildVisualization(samples, 30)

	require.Equal(t, "M 0.100,0.200 L 0.300,0.400 L 0.500,0.600", viz.Path)
	assert.True(t, strings.HasPrefix(viz.Path, "M "))
	assert.Equal(t, 2, strings.Count(viz.Path, "L "))
}

func TestBuildVisualizationSinglePoint(t *testing.T) {
	t.Parallel()

	viz := buildVisualization([]pose.CenterOfGravity{
		{X: 0.25, Y: 0.75, TimestampMs: 1000, Confidence: 0.8},
	}, 30)

	require.Len(t, viz.Points, 1)
	assert.Equal(t, "M 0.250,0.750", viz.Path)
	assert.Equal(t, 0.8, viz.Points[0].Confidence)
}
