package gait

import (
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/strut-data/gait.report/internal/pose"
	"github.com/strut-data/gait.report/internal/timeutil"
)

// Tracker owns the rolling center-of-gravity history and its derived
// read-only views. It is written by one producer (the frame ingest path)
// and read by concurrent consumers (classification, visualization, stats),
// so all state is guarded by a mutex and reads return snapshots - a reader
// must never observe a partial eviction.
type Tracker struct {
	mu    sync.RWMutex
	cfg   Config
	clock timeutil.Clock

	samples      []pose.CenterOfGravity
	lastSampleMs int64

	// Visualization cache: rebuilt at most once per VizCacheTTL and
	// invalidated on every accepted sample.
	vizCached     bool
	vizValue      VisualizationData
	vizComputedAt time.Time
}

// NewTracker creates a tracker with the given configuration and clock.
func NewTracker(cfg Config, clock timeutil.Clock) *Tracker {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Tracker{
		cfg:     cfg,
		clock:   clock,
		samples: make([]pose.CenterOfGravity, 0, cfg.MaxTrajectoryLength+cfg.BatchEvictionSize),
	}
}

// AddSample appends a center-of-gravity sample to the history. Samples
// arriving within UpdateIntervalMs of the previously accepted one are
// rejected, which bounds the effective sample rate independent of the
// detector frame rate. Returns whether the sample was kept.
func (t *Tracker) AddSample(cog pose.CenterOfGravity) bool {
	if cog.TimestampMs <= 0 {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lastSampleMs > 0 && cog.TimestampMs-t.lastSampleMs < t.cfg.UpdateIntervalMs {
		return false
	}

	t.samples = append(t.samples, cog)
	t.lastSampleMs = cog.TimestampMs
	t.vizCached = false

	// Amortized eviction: trim a whole batch from the front once the
	// buffer overshoots, rather than shifting on every insert.
	if len(t.samples) > t.cfg.MaxTrajectoryLength+t.cfg.BatchEvictionSize {
		t.samples = append(t.samples[:0:0], t.samples[t.cfg.BatchEvictionSize:]...)
	}
	return true
}

// Len returns the current number of buffered samples.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.samples)
}

// RecentSamples returns up to n most recent samples, oldest first.
func (t *Tracker) RecentSamples(n int) []pose.CenterOfGravity {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.samples) {
		n = len(t.samples)
	}
	out := make([]pose.CenterOfGravity, n)
	copy(out, t.samples[len(t.samples)-n:])
	return out
}

// Snapshot returns a copy of the full buffered history, oldest first.
func (t *Tracker) Snapshot() []pose.CenterOfGravity {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]pose.CenterOfGravity, len(t.samples))
	copy(out, t.samples)
	return out
}

// Clear empties the buffer and resets the throttle and caches.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = t.samples[:0]
	t.lastSampleMs = 0
	t.vizCached = false
}

// Config returns a snapshot of the tracker configuration.
func (t *Tracker) Config() Config {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cfg
}

// UpdateConfig applies the given function to the tracker's configuration
// under the tracker lock. This is the safe way to mutate config fields
// from outside the ingest goroutine (e.g. HTTP tuning handlers).
func (t *Tracker) UpdateConfig(fn func(*Config)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.cfg)
	t.vizCached = false
}

// CurrentAnalysis returns the coarse stability read over the outlier-filtered
// history, or nil while the buffer holds fewer than MinAnalysisPoints
// samples. The stable/unstable boundary has a deliberate dead zone
// (UnstableScoreMax..StableScoreMin) where neither label applies, which
// prevents flapping at the boundary.
func (t *Tracker) CurrentAnalysis() *Analysis {
	t.mu.RLock()
	samples := make([]pose.CenterOfGravity, len(t.samples))
	copy(samples, t.samples)
	cfg := t.cfg
	t.mu.RUnlock()

	if len(samples) < cfg.MinAnalysisPoints {
		return nil
	}

	filtered := FilterOutliers(samples)
	stability := stabilityScore(filtered, cfg.MetricsConfidenceThreshold)

	trend := TrendUnknown
	switch {
	case stability >= cfg.StableScoreMin:
		trend = TrendStable
	case stability <= cfg.UnstableScoreMax:
		trend = TrendUnstable
	}

	return &Analysis{
		Trend:          trend,
		StabilityScore: round(stability, 1),
		SampleCount:    len(samples),
	}
}

// stabilityScore is the dispersion-based 0-100 scorer behind the coarse
// analysis: 100 minus the combined per-axis standard deviation scaled to
// the unit square. Samples at or below the confidence threshold are
// excluded; fewer than 2 confident samples scores 0.
func stabilityScore(samples []pose.CenterOfGravity, confidenceThreshold float64) float64 {
	confident := filterByConfidence(samples, confidenceThreshold)
	if len(confident) < 2 {
		return 0
	}

	xs := make([]float64, len(confident))
	ys := make([]float64, len(confident))
	for i, s := range confident {
		xs[i] = s.X
		ys[i] = s.Y
	}
	stdX := stat.PopStdDev(xs, nil)
	stdY := stat.PopStdDev(ys, nil)
	combined := math.Sqrt(stdX*stdX + stdY*stdY)

	return clamp(100-combined*100, 0, 100)
}

// Statistics summarizes the buffered history and labels its quality.
func (t *Tracker) Statistics() Statistics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := Statistics{
		SampleCount: len(t.samples),
		DataQuality: "low",
	}
	if len(t.samples) == 0 {
		return stats
	}

	stats.TimeSpanMs = t.samples[len(t.samples)-1].TimestampMs - t.samples[0].TimestampMs

	var sum float64
	for _, s := range t.samples {
		sum += s.Confidence
	}
	stats.MeanConfidence = sum / float64(len(t.samples))

	switch {
	case stats.MeanConfidence >= t.cfg.HighConfidenceThreshold &&
		stats.SampleCount >= 2*t.cfg.MinAnalysisPoints:
		stats.DataQuality = "high"
	case stats.MeanConfidence >= t.cfg.MetricsConfidenceThreshold &&
		stats.SampleCount >= t.cfg.MinAnalysisPoints:
		stats.DataQuality = "medium"
	}
	return stats
}

// VisualizationData returns the downsampled point list, path string, and
// bounds for rendering. The result is cached for VizCacheTTL to bound
// recomputation cost under frequent polling; any accepted sample
// invalidates the cache immediately.
func (t *Tracker) VisualizationData() VisualizationData {
	t.mu.RLock()
	if t.vizCached && t.clock.Since(t.vizComputedAt) < t.cfg.VizCacheTTL {
		cached := t.vizValue
		t.mu.RUnlock()
		return cached
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	// Re-check under the write lock; another goroutine may have rebuilt.
	if t.vizCached && t.clock.Since(t.vizComputedAt) < t.cfg.VizCacheTTL {
		return t.vizValue
	}

	t.vizValue = buildVisualization(t.samples, t.cfg.VizMaxPoints)
	t.vizComputedAt = t.clock.Now()
	t.vizCached = true
	return t.vizValue
}
