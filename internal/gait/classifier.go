package gait

import (
	"math"

	"github.com/strut-data/gait.report/internal/pose"
)

// Classify converts a trajectory window into a pattern classification.
//
// Below cfg.MinClassifyPoints samples the unknown/zero sentinel is returned;
// classification needs more points than the metrics engine because it also
// judges temporal consistency. The thresholds are asymmetric: catwalk is the
// positive hypothesis requiring strong evidence, drunk triggers on a broader
// low-score band, and unknown is the intentionally wide default in between.
func Classify(cfg Config, samples []pose.CenterOfGravity) Classification {
	if len(samples) < cfg.MinClassifyPoints {
		return Classification{Pattern: PatternUnknown}
	}

	metrics := ComputeMetrics(samples, cfg.MetricsConfidenceThreshold)
	temporal := AnalyzeTemporal(samples)
	quality := dataQuality(samples, cfg.HighConfidenceThreshold)
	n := len(samples)

	scores := componentScores(metrics, temporal, n)

	// Weighted combination: linearity dominates because straightness is the
	// strongest discriminator between the two target patterns.
	baseScore := (0.3*scores.Stability + 0.2*scores.Regularity + 0.5*scores.Linearity) *
		math.Max(0.5, quality)
	if !temporal.IsConsistent {
		baseScore *= 0.7
	}

	// Adaptive thresholding: sparse or low-quality windows get
	// proportionally easier thresholds so early classifications are
	// possible without waiting for a full window.
	qualityFactor := clamp(quality, 0.75, 1.0)
	sizeFactor := math.Min(1.0, float64(n)/8)
	catwalkThreshold := cfg.CatwalkThreshold * qualityFactor * sizeFactor
	drunkThreshold := cfg.DrunkThreshold * qualityFactor * sizeFactor

	var pattern Pattern
	var confidence float64
	switch {
	case baseScore >= catwalkThreshold:
		pattern = PatternCatwalk
		confidence = math.Min(0.92, baseScore/100)
	case baseScore <= drunkThreshold:
		pattern = PatternDrunk
		confidence = math.Min(0.92, (100-baseScore)/100)
	default:
		pattern = PatternUnknown
		confidence = math.Min(0.7, math.Abs(baseScore-50)/50*0.6)
	}

	confidence = finishConfidence(confidence, quality, temporal.IsConsistent, n)

	return Classification{
		Pattern:    pattern,
		Confidence: round(confidence, 3),
		Scores: Scores{
			Stability:  round(scores.Stability, 1),
			Regularity: round(scores.Regularity, 1),
			Linearity:  round(scores.Linearity, 1),
		},
	}
}

// componentScores derives the 0-100 stability/regularity/linearity scores.
func componentScores(metrics Metrics, temporal TemporalConsistency, n int) Scores {
	// The dispersion penalty scales with sample count: more samples justify
	// a stricter judgment on the same standard deviation.
	base := 100.0
	if n > 10 {
		base = 150.0
	}
	adaptive := base * clamp(float64(n)/10, 0.8, 1.2)
	stability := clamp(100-metrics.StandardDeviation*adaptive, 0, 100)

	regularity := clamp(100-metrics.VelocityVariation*100, 0, 100)
	if temporal.IsConsistent {
		regularity *= 1.1
	} else {
		regularity *= 0.9
	}
	if regularity > 100 {
		regularity = 100
	}

	return Scores{
		Stability:  stability,
		Regularity: regularity,
		Linearity:  metrics.LinearityIndex * 100,
	}
}

// dataQuality scores a window in [0,1] from its confidence profile:
// 60% mean confidence, 40% fraction of high-confidence samples.
func dataQuality(samples []pose.CenterOfGravity, highThreshold float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	var high int
	for _, s := range samples {
		sum += s.Confidence
		if s.Confidence > highThreshold {
			high++
		}
	}
	mean := sum / float64(len(samples))
	highFraction := float64(high) / float64(len(samples))
	return 0.6*mean + 0.4*highFraction
}

// finishConfidence applies the quality, temporal, and sample-size bonuses
// and clamps to [0, 0.98]. Confidence never reaches certainty: this is a
// heuristic scorer, not a calibrated probability.
func finishConfidence(confidence, quality float64, consistent bool, n int) float64 {
	switch {
	case quality > 0.8:
		confidence *= 1.1
	case quality < 0.6:
		confidence *= 0.8
	}

	if consistent {
		confidence *= 1.05
	} else {
		confidence *= 0.9
	}

	switch {
	case n >= 10:
		// no adjustment
	case n >= 5:
		confidence *= 0.9
	default:
		confidence *= 0.7
	}

	return clamp(confidence, 0, 0.98)
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
