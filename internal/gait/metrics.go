package gait

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/strut-data/gait.report/internal/pose"
)

// degenerateVariance is the variance floor below which regression and
// division results are numerically meaningless.
const degenerateVariance = 1e-10

// ComputeMetrics derives trajectory statistics for one window.
//
// Samples are pre-filtered to confidence above confidenceThreshold; if that
// leaves fewer than 3 samples the computation falls back to the unfiltered
// window, so a confidence-sparse window degrades rather than failing
// outright. Below 3 samples the zero Metrics value is returned.
func ComputeMetrics(samples []pose.CenterOfGravity, confidenceThreshold float64) Metrics {
	if len(samples) < 3 {
		return Metrics{}
	}

	filtered := filterByConfidence(samples, confidenceThreshold)
	if len(filtered) < 3 {
		filtered = samples
	}
	return computeRaw(filtered)
}

// computeRaw derives metrics from a window without any confidence filtering.
func computeRaw(samples []pose.CenterOfGravity) Metrics {
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.X
		ys[i] = s.Y
	}

	varX := stat.PopVariance(xs, nil)
	varY := stat.PopVariance(ys, nil)
	stdDev := math.Sqrt(varX + varY)

	meanX := stat.Mean(xs, nil)
	meanY := stat.Mean(ys, nil)
	meanMagnitude := math.Sqrt(meanX*meanX + meanY*meanY)
	if meanMagnitude < degenerateVariance {
		meanMagnitude = degenerateVariance
	}

	return Metrics{
		StandardDeviation:      stdDev,
		CoefficientOfVariation: stdDev / meanMagnitude,
		LinearityIndex:         linearityIndex(xs, ys, varX),
		VelocityVariation:      velocityVariation(samples),
	}
}

// linearityIndex is the OLS R^2 of y regressed on x, clamped to [0,1].
// Returns 0 when the x variance is degenerate (vertical or stationary
// trajectories have no meaningful fit).
func linearityIndex(xs, ys []float64, varX float64) float64 {
	if varX < degenerateVariance {
		return 0
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		return 0
	}
	return clamp(r2, 0, 1)
}

// velocityVariation is the coefficient of variation of per-step speeds.
// Steps with non-positive elapsed time are skipped; fewer than 2 valid
// steps or a near-zero mean speed yields 0.
func velocityVariation(samples []pose.CenterOfGravity) float64 {
	speeds := make([]float64, 0, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		dtSecs := float64(samples[i].TimestampMs-samples[i-1].TimestampMs) / 1000
		if dtSecs <= 0 {
			continue
		}
		dx := samples[i].X - samples[i-1].X
		dy := samples[i].Y - samples[i-1].Y
		speeds = append(speeds, math.Sqrt(dx*dx+dy*dy)/dtSecs)
	}

	if len(speeds) < 2 {
		return 0
	}
	mean := stat.Mean(speeds, nil)
	if mean < degenerateVariance {
		return 0
	}
	return stat.PopStdDev(speeds, nil) / mean
}

// filterByConfidence keeps samples with confidence strictly above threshold.
func filterByConfidence(samples []pose.CenterOfGravity, threshold float64) []pose.CenterOfGravity {
	filtered := make([]pose.CenterOfGravity, 0, len(samples))
	for _, s := range samples {
		if s.Confidence > threshold {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
