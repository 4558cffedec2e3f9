package pose

import "errors"

// Estimator contract failures. These indicate the detector produced no
// usable skeleton for a frame; callers are expected to skip the frame
// rather than abort the pipeline.
var (
	// ErrNoLandmarks is returned when the detector produced an empty list.
	ErrNoLandmarks = errors.New("pose: no landmarks in frame")
	// ErrLowConfidence is returned when fewer than MinValidLandmarks of the
	// tracked anatomical points pass the visibility threshold.
	ErrLowConfidence = errors.New("pose: insufficient confident landmarks")
)

// MinValidLandmarks is the minimum number of tracked anatomical points that
// must pass the visibility threshold for an estimate.
const MinValidLandmarks = 2

// anatomicalWeights assigns each tracked point its share of body mass.
// Hips carry the most weight (0.45 combined) as the closest proxy for the
// body's true mass center; knees 0.25, then ankles and shoulders 0.15 each.
var anatomicalWeights = map[int]float64{
	LeftHip:       0.225,
	RightHip:      0.225,
	LeftKnee:      0.125,
	RightKnee:     0.125,
	LeftAnkle:     0.075,
	RightAnkle:    0.075,
	LeftShoulder:  0.075,
	RightShoulder: 0.075,
}

// trackedLandmarks fixes the accumulation order of the estimate; iterating
// the weight map directly would make the float sums order-dependent and the
// result nondeterministic across runs for identical frames.
var trackedLandmarks = [...]int{
	LeftHip, RightHip,
	LeftKnee, RightKnee,
	LeftAnkle, RightAnkle,
	LeftShoulder, RightShoulder,
}

// CenterOfGravity is one sample of the estimated body center.
// X and Y are in [0,1], Confidence in [0,1], TimestampMs strictly positive.
// Samples are immutable once created.
type CenterOfGravity struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	TimestampMs int64   `json:"timestamp_ms"`
	Confidence  float64 `json:"confidence"`
}

// Estimator computes a weighted center of gravity from a landmark frame.
type Estimator struct {
	// VisibilityThreshold is the minimum per-point visibility for a
	// landmark to participate in the estimate.
	VisibilityThreshold float64
}

// NewEstimator returns an Estimator with the given visibility threshold.
func NewEstimator(visibilityThreshold float64) *Estimator {
	return &Estimator{VisibilityThreshold: visibilityThreshold}
}

// Estimate computes the center of gravity for one frame.
//
// Each participating anatomical point contributes its fixed weight boosted
// multiplicatively by (1 + visibility), so well-detected points pull the
// estimate harder. The result is the weight-normalized average of the
// participating coordinates, clamped to the unit square.
//
// Confidence is the mean of (1+visibility)/2 across participating points,
// floored at 0.5 and capped at 1.0. Marginal detections therefore still
// report moderate confidence, which keeps the downstream buffer fed during
// partial occlusion instead of starving it.
func (e *Estimator) Estimate(landmarks []Landmark, timestampMs int64) (CenterOfGravity, error) {
	if len(landmarks) == 0 {
		return CenterOfGravity{}, ErrNoLandmarks
	}

	var (
		sumX, sumY, sumWeight float64
		sumBoost              float64
		valid                 int
	)
	for _, idx := range trackedLandmarks {
		if idx >= len(landmarks) {
			continue
		}
		base := anatomicalWeights[idx]
		vis := landmarks[idx].VisibilityOrZero()
		if vis <= e.VisibilityThreshold {
			continue
		}
		boost := 1 + vis
		w := base * boost
		sumX += landmarks[idx].X * w
		sumY += landmarks[idx].Y * w
		sumWeight += w
		sumBoost += boost / 2
		valid++
	}

	if valid < MinValidLandmarks {
		return CenterOfGravity{}, ErrLowConfidence
	}

	confidence := sumBoost / float64(valid)
	if confidence < 0.5 {
		confidence = 0.5
	}
	if confidence > 1 {
		confidence = 1
	}

	return CenterOfGravity{
		X:           clamp01(sumX / sumWeight),
		Y:           clamp01(sumY / sumWeight),
		TimestampMs: timestampMs,
		Confidence:  confidence,
	}, nil
}
