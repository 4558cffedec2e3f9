package gait

import (
	"fmt"
	"strings"

	"github.com/strut-data/gait.report/internal/pose"
)

// VizPoint is a single downsampled trajectory point for rendering.
type VizPoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Bounds is an axis-aligned bounding box. It always contains the unit
// square so consumers can render a fixed viewport without recomputing
// their scale as points arrive.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// VisualizationData is the render-ready view of the trajectory: a
// downsampled point list, an SVG-style polyline through those points,
// and the bounding box.
type VisualizationData struct {
	Points []VizPoint `json:"points"`
	Path   string     `json:"path"`
	Bounds Bounds     `json:"bounds"`
}

// buildVisualization downsamples the history by stride to at most maxPoints
// and renders the polyline with 3-decimal precision.
func buildVisualization(samples []pose.CenterOfGravity, maxPoints int) VisualizationData {
	bounds := Bounds{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}
	if len(samples) == 0 {
		return VisualizationData{Points: []VizPoint{}, Bounds: bounds}
	}
	if maxPoints < 2 {
		maxPoints = 2
	}

	stride := 1
	if len(samples) > maxPoints {
		stride = (len(samples) + maxPoints - 1) / maxPoints
	}

	points := make([]VizPoint, 0, maxPoints)
	for i := 0; i < len(samples); i += stride {
		s := samples[i]
		points = append(points, VizPoint{X: s.X, Y: s.Y, Confidence: s.Confidence})
		if s.X < bounds.MinX {
			bounds.MinX = s.X
		}
		if s.Y < bounds.MinY {
			bounds.MinY = s.Y
		}
		if s.X > bounds.MaxX {
			bounds.MaxX = s.X
		}
		if s.Y > bounds.MaxY {
			bounds.MaxY = s.Y
		}
	}

	var path strings.Builder
	for i, p := range points {
		if i == 0 {
			fmt.Fprintf(&path, "M %.3f,%.3f", p.X, p.Y)
		} else {
			fmt.Fprintf(&path, " L %.3f,%.3f", p.X, p.Y)
		}
	}

	return VisualizationData{
		Points: points,
		Path:   path.String(),
		Bounds: bounds,
	}
}
