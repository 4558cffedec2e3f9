package gait

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/strut-data/gait.report/internal/pose"
)

// tukeyFenceMultiplier is the standard 1.5 x IQR fence. Gait trajectories are
// locally smooth, so a sample far outside the interquartile spread is almost
// certainly a detector glitch rather than genuine motion.
const tukeyFenceMultiplier = 1.5

// FilterOutliers drops samples lying beyond the Tukey fences on either axis.
// Q1/Q3 are computed independently for x and y; a sample flagged on one axis
// is dropped entirely. Below 3 samples the input is returned unchanged, as
// quartiles are meaningless there.
func FilterOutliers(samples []pose.CenterOfGravity) []pose.CenterOfGravity {
	if len(samples) < 3 {
		return samples
	}

	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.X
		ys[i] = s.Y
	}

	loX, hiX := tukeyFences(xs)
	loY, hiY := tukeyFences(ys)

	filtered := make([]pose.CenterOfGravity, 0, len(samples))
	for _, s := range samples {
		if s.X < loX || s.X > hiX || s.Y < loY || s.Y > hiY {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}

// tukeyFences returns the lower and upper Tukey fences for the given values.
func tukeyFences(values []float64) (lo, hi float64) {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	iqr := q3 - q1

	return q1 - tukeyFenceMultiplier*iqr, q3 + tukeyFenceMultiplier*iqr
}
