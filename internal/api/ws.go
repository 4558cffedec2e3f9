package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/strut-data/gait.report/internal/gait"
	"github.com/strut-data/gait.report/internal/monitoring"
	"github.com/strut-data/gait.report/internal/pose"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The detector runs in a browser served from a different origin during
	// development; frames carry no credentials so cross-origin is fine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsAck is the per-frame reply on the landmark socket.
type wsAck struct {
	Type        string `json:"type"`
	Accepted    bool   `json:"accepted"`
	SampleCount int    `json:"sample_count"`
	Error       string `json:"error,omitempty"`
}

// wsClassification wraps a pushed classification so clients can demux
// message types on one socket.
type wsClassification struct {
	Type           string              `json:"type"`
	Classification gait.Classification `json:"classification"`
}

// pushClassifications writes the session's current classification through
// write every ClassifyPushInterval until done closes or a write fails. The
// interval is re-read from the shared config each cycle so tuning updates
// applied through /api/params take effect on sockets that are already open.
func (s *Server) pushClassifications(done <-chan struct{}, session *gait.Session, write func(interface{}) error) {
	for {
		ticker := s.clock.NewTicker(s.sessions.Config().ClassifyPushInterval)
		select {
		case <-done:
			ticker.Stop()
			return
		case <-ticker.C():
			ticker.Stop()
			msg := wsClassification{
				Type:           "classification",
				Classification: session.Classification(),
			}
			if err := write(msg); err != nil {
				return
			}
		}
	}
}

// handleLandmarksWS upgrades to a websocket carrying landmark frames in and
// classification pushes out. Each inbound frame is ingested like a POST to
// /api/landmarks; the current classification is pushed every
// ClassifyPushInterval for as long as the socket is open.
func (s *Server) handleLandmarksWS(w http.ResponseWriter, r *http.Request) {
	session := s.resolveSession(w, r)
	if session == nil {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		monitoring.Logf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Gorilla connections allow one concurrent writer; the reader's acks and
	// the pusher share writeMu.
	var writeMu sync.Mutex
	writeJSON := func(v interface{}) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(v)
	}

	done := make(chan struct{})
	defer close(done)

	go s.pushClassifications(done, session, writeJSON)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				monitoring.Logf("ws session %s read error: %v", session.ID, err)
			}
			return
		}

		var frame pose.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			if err := writeJSON(wsAck{Type: "ack", Error: "invalid frame"}); err != nil {
				return
			}
			continue
		}

		_, accepted, err := session.IngestFrame(frame)
		ack := wsAck{Type: "ack", Accepted: accepted, SampleCount: session.Tracker().Len()}
		if err != nil {
			ack.Error = err.Error()
		}
		if err := writeJSON(ack); err != nil {
			return
		}
	}
}
