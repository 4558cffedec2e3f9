package gait

import (
	"github.com/strut-data/gait.report/internal/pose"
)

// walkSamples builds an evenly spaced straight-line trajectory starting at
// (x0, y0), stepping by (dx, dy) every stepMs, with uniform confidence.
func walkSamples(n int, x0, y0, dx, dy float64, startMs, stepMs int64, conf float64) []pose.CenterOfGravity {
	samples := make([]pose.CenterOfGravity, n)
	for i := range samples {
		samples[i] = pose.CenterOfGravity{
			X:           x0 + float64(i)*dx,
			Y:           y0 + float64(i)*dy,
			TimestampMs: startMs + int64(i)*stepMs,
			Confidence:  conf,
		}
	}
	return samples
}

// cornerSamples builds the reference chaotic trajectory: lurching between
// far corners of the frame at even spacing.
func cornerSamples(startMs, stepMs int64, conf float64) []pose.CenterOfGravity {
	corners := [][2]float64{
		{0.1, 0.1}, {0.9, 0.9}, {0.05, 0.95}, {0.95, 0.05}, {0.2, 0.8},
	}
	samples := make([]pose.CenterOfGravity, len(corners))
	for i, c := range corners {
		samples[i] = pose.CenterOfGravity{
			X:           c[0],
			Y:           c[1],
			TimestampMs: startMs + int64(i)*stepMs,
			Confidence:  conf,
		}
	}
	return samples
}
