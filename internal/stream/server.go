// Package stream serves preset runs over HTTP and pushes their snapshot
// series to websocket clients frame by frame.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/san-kum/heatsim/internal/config"
	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/storage"
)

const (
	writeWait = 10 * time.Second

	// maxFrames bounds the series streamed for presets without their own sampling.
	maxFrames = 100
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	interval time.Duration
	logger   log.FieldLogger
}

// NewServer paces websocket frames at fps; fps <= 0 streams as fast as the
// connection allows.
func NewServer(addr string, fps int, logger log.FieldLogger) *Server {
	s := &Server{
		addr:     addr,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		logger:   logger,
	}
	if fps > 0 {
		s.interval = time.Second / time.Duration(fps)
	}
	return s
}

// Routes builds the chi router. It is exposed for httptest.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/presets", s.listPresets)
	r.Get("/presets/{name}", s.runPreset)
	r.Get("/ws/{name}", s.serveWs)
	return r
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Routes()}
	errc := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.addr).Info("stream server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"request_id": middleware.GetReqID(r.Context()),
			"elapsed":    time.Since(start),
		}).Debug("request")
	})
}

type presetInfo struct {
	Name    string  `json:"name"`
	Scheme  string  `json:"scheme"`
	TFinal  float64 `json:"t_final"`
	Points  int     `json:"nx"`
	Dt      float64 `json:"dt"`
	Fourier float64 `json:"fourier"`
	Verify  bool    `json:"verify"`
}

func (s *Server) listPresets(w http.ResponseWriter, _ *http.Request) {
	var out []presetInfo
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		p, err := cfg.Params()
		if err != nil {
			continue
		}
		out = append(out, presetInfo{
			Name:    name,
			Scheme:  cfg.Scheme,
			TFinal:  p.TFinal,
			Points:  p.Points,
			Dt:      p.Dt,
			Fourier: p.Fourier(),
			Verify:  cfg.Verify,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) runPreset(w http.ResponseWriter, r *http.Request) {
	cfg, status, err := experimentFor(chi.URLParam(r, "name"))
	if err != nil {
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	rep, err := experiment.New(cfg).WithLogger(s.logger).Run()
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, storage.NewExportData(rep))
}

var errUnknownPreset = errors.New("unknown preset")

func experimentFor(name string) (experiment.Config, int, error) {
	preset := config.GetPreset(name)
	if preset == nil {
		return experiment.Config{}, http.StatusNotFound, errUnknownPreset
	}
	cfg, err := preset.Experiment(name)
	if err != nil {
		return experiment.Config{}, http.StatusUnprocessableEntity, err
	}
	if cfg.SampleEvery == 0 {
		cfg.SampleEvery = max(1, cfg.Params.Steps()/maxFrames)
	}
	return cfg, http.StatusOK, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
