package gait

import (
	"gonum.org/v1/gonum/stat"

	"github.com/strut-data/gait.report/internal/pose"
)

// maxIntervalVariation is the cadence variability above which a window is
// considered temporally inconsistent. Sampling gaps (detector stalls, tab
// backgrounding) corrupt velocity metrics, so the classifier discounts
// inconsistent windows.
const maxIntervalVariation = 0.5

// AnalyzeTemporal computes the sampling-cadence consistency of a window.
// Below 2 samples the zeroed, inconsistent value is returned.
func AnalyzeTemporal(samples []pose.CenterOfGravity) TemporalConsistency {
	if len(samples) < 2 {
		return TemporalConsistency{}
	}

	gaps := make([]float64, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		gaps[i-1] = float64(samples[i].TimestampMs - samples[i-1].TimestampMs)
	}

	mean := stat.Mean(gaps, nil)
	var variation float64
	if mean > 0 {
		variation = stat.PopStdDev(gaps, nil) / mean
	}

	return TemporalConsistency{
		AverageIntervalMs: mean,
		IntervalVariation: variation,
		IsConsistent:      variation <= maxIntervalVariation && mean > 0,
	}
}
