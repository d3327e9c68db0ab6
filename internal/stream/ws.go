package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/san-kum/heatsim/internal/experiment"
)

// Message types sent to and accepted from websocket clients.
const (
	TypeStarted = "started"
	TypeFrame   = "frame"
	TypeDone    = "done"
	TypeStop    = "stop"
	TypeStopped = "stopped"
	TypeError   = "error"
)

type Message struct {
	Type      string    `json:"type"`
	Preset    string    `json:"preset,omitempty"`
	Scheme    string    `json:"scheme,omitempty"`
	Fourier   float64   `json:"fourier,omitempty"`
	Positions []float64 `json:"positions,omitempty"`
	Frame     int       `json:"frame"`
	Frames    int       `json:"frames,omitempty"`
	Time      float64   `json:"time"`
	Field     []float64 `json:"field,omitempty"`
	Steps     int       `json:"steps,omitempty"`
	MaxError  *float64  `json:"max_error,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// serveWs runs the preset named in the path and streams its snapshots.
// A client may send {"type":"stop"} at any time to end the stream early.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	cfg, status, err := experimentFor(name)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Error("websocket upgrade failed")
		return
	}
	defer conn.Close()

	logger := s.logger.WithField("preset", name)
	stop := make(chan struct{})
	go readPump(conn, stop, logger)

	rep, err := experiment.New(cfg).WithLogger(logger).Run()
	if err != nil {
		send(conn, Message{Type: TypeError, Preset: name, Error: err.Error()}, logger)
		return
	}

	started := Message{
		Type:      TypeStarted,
		Preset:    name,
		Scheme:    rep.Scheme,
		Fourier:   rep.Stability.Fourier,
		Positions: rep.Positions,
		Frames:    len(rep.Snapshots),
	}
	if !send(conn, started, logger) {
		return
	}

	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	emit := func(msg Message) bool {
		if msg.Type == TypeStopped {
			logger.WithField("frame", msg.Frame).Info("stream stopped by client")
		}
		return send(conn, msg, logger)
	}
	if play(rep, name, tick, stop, emit) {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		logger.WithField("frames", len(rep.Snapshots)).Info("stream finished")
	}
}

// play emits one frame per snapshot, waiting on tick between frames when it
// is non-nil, then a done message. A stop seen at any point, including the
// wait after the last frame, ends with stopped instead. It reports whether
// done was delivered.
func play(rep *experiment.Report, name string, tick <-chan time.Time, stop <-chan struct{}, emit func(Message) bool) bool {
	stopped := func(frame int) bool {
		select {
		case <-stop:
		default:
			return false
		}
		emit(Message{Type: TypeStopped, Preset: name, Frame: frame})
		return true
	}

	for i, fr := range rep.Snapshots {
		if stopped(i) {
			return false
		}
		if !emit(Message{Type: TypeFrame, Frame: i, Time: fr.Time, Field: fr.Field}) {
			return false
		}
		if tick != nil {
			select {
			case <-tick:
			case <-stop:
			}
		}
	}
	if stopped(len(rep.Snapshots)) {
		return false
	}

	done := Message{Type: TypeDone, Preset: name, Frames: len(rep.Snapshots), Steps: rep.Steps, Time: rep.Params.TFinal}
	if rep.Verified() {
		e := rep.MaxError
		done.MaxError = &e
	}
	return emit(done)
}

func send(conn *websocket.Conn, msg Message, logger log.FieldLogger) bool {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(&msg); err != nil {
		logger.WithError(err).Warn("websocket write failed")
		return false
	}
	return true
}

// readPump closes stop when the client asks to stop or goes away.
func readPump(conn *websocket.Conn, stop chan struct{}, logger log.FieldLogger) {
	defer close(stop)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithError(err).Debug("websocket read ended")
			}
			return
		}
		switch msg.Type {
		case TypeStop:
			return
		default:
			logger.WithField("type", msg.Type).Debug("ignoring client message")
		}
	}
}
