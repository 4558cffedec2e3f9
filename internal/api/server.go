package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/strut-data/gait.report/internal/config"
	"github.com/strut-data/gait.report/internal/gait"
	"github.com/strut-data/gait.report/internal/pose"
	"github.com/strut-data/gait.report/internal/timeutil"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server exposes the gait analysis pipeline over HTTP. All state lives in
// the session manager; handlers are stateless and safe for concurrent use.
type Server struct {
	sessions *gait.SessionManager
	clock    timeutil.Clock
}

func NewServer(sessions *gait.SessionManager, clock timeutil.Clock) *Server {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Server{
		sessions: sessions,
		clock:    clock,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/landmarks", s.handleLandmarks)
	mux.HandleFunc("/api/classification", s.handleClassification)
	mux.HandleFunc("/api/trajectory", s.handleTrajectory)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/analysis", s.handleAnalysis)
	mux.HandleFunc("/api/session", s.handleCreateSession)
	mux.HandleFunc("/api/session/clear", s.handleClearSession)
	mux.HandleFunc("/api/sessions", s.handleListSessions)
	mux.HandleFunc("/api/params", s.handleParams)
	mux.HandleFunc("/ws/landmarks", s.handleLandmarksWS)
	mux.HandleFunc("/debug/trajectory", s.handleTrajectoryChart)
	mux.HandleFunc("/debug/scores", s.handleScoresChart)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// resolveSession picks the session addressed by the request: the session_id
// query parameter when present, the default session otherwise. Writes a 404
// and returns nil for unknown IDs.
func (s *Server) resolveSession(w http.ResponseWriter, r *http.Request) *gait.Session {
	id := r.URL.Query().Get("session_id")
	session, ok := s.sessions.Resolve(id)
	if !ok {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown session %q", id))
		return nil
	}
	return session
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "ok", "service": "gait", "timestamp": "%s"}`, time.Now().UTC().Format(time.RFC3339))
}

// handleLandmarks ingests one detector frame. The frame's session_id field
// takes precedence over the query parameter so batch uploaders can mix
// sessions in one connection.
func (s *Server) handleLandmarks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var frame pose.Frame
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&frame); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid frame: %v", err))
		return
	}

	id := frame.SessionID
	if id == "" {
		id = r.URL.Query().Get("session_id")
	}
	session, ok := s.sessions.Resolve(id)
	if !ok {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown session %q", id))
		return
	}

	cog, accepted, err := session.IngestFrame(frame)
	if err != nil {
		// Estimator failures are per-frame sensor noise (occlusion, detector
		// dropout), not client errors: reply 200 so streaming detectors keep
		// sending instead of treating the burst as a protocol failure.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"accepted":     false,
			"reason":       err.Error(),
			"sample_count": session.Tracker().Len(),
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"accepted":     accepted,
		"cog":          cog,
		"sample_count": session.Tracker().Len(),
	})
}

func (s *Server) handleClassification(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	session := s.resolveSession(w, r)
	if session == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(session.Classification()); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write classification")
	}
}

func (s *Server) handleTrajectory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	session := s.resolveSession(w, r)
	if session == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(session.Tracker().VisualizationData()); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write trajectory")
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	session := s.resolveSession(w, r)
	if session == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(session.Tracker().Statistics()); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write stats")
	}
}

// handleAnalysis serves the coarse stability read. While the buffer is
// still below the analysis floor the response is a "collecting" status
// rather than an error: clients poll this during warm-up.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	session := s.resolveSession(w, r)
	if session == nil {
		return
	}

	analysis := session.Tracker().CurrentAnalysis()
	if analysis == nil {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "collecting",
			"sample_count": session.Tracker().Len(),
		})
		return
	}
	if err := json.NewEncoder(w).Encode(analysis); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write analysis")
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	session := s.sessions.Create()
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":         session.ID,
		"created_at": session.CreatedAt,
	})
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	session := s.resolveSession(w, r)
	if session == nil {
		return
	}

	session.Clear()
	json.NewEncoder(w).Encode(map[string]string{"status": "cleared", "id": session.ID})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := json.NewEncoder(w).Encode(s.sessions.List()); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write sessions")
	}
}

// handleParams reads (GET) or updates (POST) the runtime tuning parameters.
// POST accepts a partial TuningConfig: only the fields present in the body
// are applied, to the base config and to every live session.
func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		if err := json.NewEncoder(w).Encode(s.sessions.Config()); err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, "Failed to write params")
		}
	case http.MethodPost:
		var tuning config.TuningConfig
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&tuning); err != nil {
			s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid params: %v", err))
			return
		}
		if err := tuning.Validate(); err != nil {
			s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid params: %v", err))
			return
		}

		s.sessions.UpdateConfig(func(c *gait.Config) {
			c.ApplyTuning(&tuning)
		})
		json.NewEncoder(w).Encode(s.sessions.Config())
	default:
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
