// Package pose converts raw detector keypoints into normalized landmarks and
// estimates a per-frame body center of gravity from them. The detector itself
// is external; this package only consumes its output.
package pose

// Landmark indices follow the 33-point full-body layout emitted by the
// common browser pose detectors. Only the eight anatomical points used by
// the center-of-gravity estimator are named here.
const (
	LeftShoulder  = 11
	RightShoulder = 12
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28

	// LandmarkCount is the expected size of a full detector output.
	LandmarkCount = 33
)

// Landmark is one detected skeletal keypoint for one frame. X and Y are
// image-normalized to [0,1]; Z is relative depth (unitless). Visibility is
// the detector's per-point confidence; a nil Visibility means the detector
// did not report one and the point is treated as low confidence.
type Landmark struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Z          float64  `json:"z"`
	Visibility *float64 `json:"visibility,omitempty"`
}

// VisibilityOrZero returns the landmark visibility, or 0 when absent.
func (l Landmark) VisibilityOrZero() float64 {
	if l.Visibility == nil {
		return 0
	}
	return *l.Visibility
}

// Frame is one detector callback worth of landmarks plus its timestamp.
// TimestampMs is monotonic wall-clock milliseconds at detection time.
type Frame struct {
	SessionID   string     `json:"session_id,omitempty"`
	TimestampMs int64      `json:"timestamp_ms"`
	Landmarks   []Landmark `json:"landmarks"`
}

// Normalize adapts raw detector keypoints into the canonical landmark list.
// Coordinates are clamped into [0,1] and visibility values into [0,1];
// detectors occasionally report slightly out-of-frame points for partially
// occluded joints.
func Normalize(raw []Landmark) []Landmark {
	out := make([]Landmark, len(raw))
	for i, lm := range raw {
		out[i] = Landmark{
			X: clamp01(lm.X),
			Y: clamp01(lm.Y),
			Z: lm.Z,
		}
		if lm.Visibility != nil {
			v := clamp01(*lm.Visibility)
			out[i].Visibility = &v
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
