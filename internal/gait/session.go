package gait

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/strut-data/gait.report/internal/monitoring"
	"github.com/strut-data/gait.report/internal/pose"
	"github.com/strut-data/gait.report/internal/timeutil"
)

// ScoreSample is one entry in a session's classification history ring.
type ScoreSample struct {
	TimestampMs int64   `json:"timestamp_ms"`
	Pattern     Pattern `json:"pattern"`
	Confidence  float64 `json:"confidence"`
	Scores      Scores  `json:"scores"`
}

// Session binds one trajectory tracker to an estimator, a throttled
// classifier, and a score-history ring. Sessions are long-lived: one per
// analysis run, created explicitly and discarded with it.
type Session struct {
	ID        string
	CreatedAt time.Time

	tracker   *Tracker
	estimator *pose.Estimator
	clock     timeutil.Clock

	mu             sync.Mutex
	lastClassifyAt time.Time
	lastResult     Classification
	haveResult     bool
	scores         []ScoreSample
	recorder       io.Writer
}

// NewSession creates a session with a fresh tracker. Session IDs are
// globally unique so they stay valid across server restarts in client
// bookmarks and logs.
func NewSession(cfg Config, clock timeutil.Clock) *Session {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Session{
		ID:        fmt.Sprintf("ses_%s", uuid.NewString()),
		CreatedAt: clock.Now(),
		tracker:   NewTracker(cfg, clock),
		estimator: pose.NewEstimator(cfg.LandmarkVisibilityThreshold),
		clock:     clock,
	}
}

// Tracker returns the session's trajectory tracker.
func (s *Session) Tracker() *Tracker {
	return s.tracker
}

// SetRecorder installs an optional writer receiving one JSON line per
// accepted sample, for offline plotting. Pass nil to disable.
func (s *Session) SetRecorder(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = w
}

// IngestFrame runs one detector frame through the estimator and, if the
// estimate succeeds, offers it to the tracker. Returns the estimate and
// whether the tracker accepted it (false also when throttled). Estimator
// contract failures are returned as errors for the caller to report; they
// are per-frame noise, not session failures.
func (s *Session) IngestFrame(frame pose.Frame) (pose.CenterOfGravity, bool, error) {
	ts := frame.TimestampMs
	if ts <= 0 {
		ts = s.clock.Now().UnixMilli()
	}

	// Pick up runtime tuning updates before estimating.
	s.estimator.VisibilityThreshold = s.tracker.Config().LandmarkVisibilityThreshold

	cog, err := s.estimator.Estimate(pose.Normalize(frame.Landmarks), ts)
	if err != nil {
		return pose.CenterOfGravity{}, false, err
	}

	accepted := s.tracker.AddSample(cog)
	if accepted {
		s.record(cog)
	}
	return cog, accepted, nil
}

func (s *Session) record(cog pose.CenterOfGravity) {
	s.mu.Lock()
	w := s.recorder
	s.mu.Unlock()
	if w == nil {
		return
	}
	line, err := json.Marshal(cog)
	if err != nil {
		return
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		monitoring.Logf("session %s: failed to record sample: %v", s.ID, err)
	}
}

// Classification returns the current gait classification. Recomputation is
// throttled to at most once per AnalysisInterval; between recomputes the
// cached result is served, which keeps fast pollers cheap.
func (s *Session) Classification() Classification {
	cfg := s.tracker.Config()

	s.mu.Lock()
	if s.haveResult && s.clock.Since(s.lastClassifyAt) < cfg.AnalysisInterval {
		cached := s.lastResult
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	result := Classify(cfg, s.tracker.Snapshot())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastResult = result
	s.lastClassifyAt = s.clock.Now()
	s.haveResult = true

	s.scores = append(s.scores, ScoreSample{
		TimestampMs: s.clock.Now().UnixMilli(),
		Pattern:     result.Pattern,
		Confidence:  result.Confidence,
		Scores:      result.Scores,
	})
	if len(s.scores) > cfg.ScoreHistoryLength {
		s.scores = s.scores[len(s.scores)-cfg.ScoreHistoryLength:]
	}
	return result
}

// ScoreHistory returns a copy of the classification history, oldest first.
func (s *Session) ScoreHistory() []ScoreSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ScoreSample, len(s.scores))
	copy(out, s.scores)
	return out
}

// Clear resets the session's buffer, classification cache, and history.
func (s *Session) Clear() {
	s.tracker.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.haveResult = false
	s.scores = s.scores[:0]
}

// SessionInfo is the listing view of a session.
type SessionInfo struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	SampleCount int       `json:"sample_count"`
}

// SessionManager owns the live sessions. A default session is created at
// construction so single-user clients never need session bookkeeping; the
// empty session ID always resolves to it.
type SessionManager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	defaultID string
	cfg       Config
	clock     timeutil.Clock
}

// NewSessionManager creates a manager holding one default session.
func NewSessionManager(cfg Config, clock timeutil.Clock) *SessionManager {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	m := &SessionManager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		clock:    clock,
	}
	def := NewSession(cfg, clock)
	m.sessions[def.ID] = def
	m.defaultID = def.ID
	return m
}

// Create adds and returns a new session.
func (m *SessionManager) Create() *Session {
	s := NewSession(m.currentConfig(), m.clock)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

// Default returns the default session.
func (m *SessionManager) Default() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[m.defaultID]
}

// Resolve returns the session for id, or the default session when id is
// empty. The boolean reports whether a session was found.
func (m *SessionManager) Resolve(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id == "" {
		id = m.defaultID
	}
	s, ok := m.sessions[id]
	return s, ok
}

// List returns info for all sessions, sorted by creation time.
func (m *SessionManager) List() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, s := range m.sessions {
		infos = append(infos, SessionInfo{
			ID:          s.ID,
			CreatedAt:   s.CreatedAt,
			SampleCount: s.tracker.Len(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].CreatedAt.Before(infos[j].CreatedAt) })
	return infos
}

// Config returns a snapshot of the manager's base configuration.
func (m *SessionManager) Config() Config {
	return m.currentConfig()
}

func (m *SessionManager) currentConfig() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// UpdateConfig applies fn to the base configuration and to every live
// session's tracker under their locks. New sessions inherit the updated
// configuration.
func (m *SessionManager) UpdateConfig(fn func(*Config)) {
	m.mu.Lock()
	fn(&m.cfg)
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.tracker.UpdateConfig(fn)
	}
}
