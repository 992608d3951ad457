package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arbor-dev/arbor/pkg/app"
)

// Server hosts one application instance per websocket session.
type Server struct {
	cfg        Config
	logger     *slog.Logger
	newProgram func() app.Program
	upgrader   websocket.Upgrader
	metrics    *metrics

	mu       sync.Mutex
	sessions map[string]*Session

	httpServer *http.Server
}

// New creates a server; newProgram builds a fresh Program per session.
func New(newProgram func() app.Program, cfg Config) (*Server, error) {
	if err := cfg.fillDefaults(); err != nil {
		return nil, err
	}
	s := &Server{
		cfg:        cfg,
		logger:     cfg.Logger,
		newProgram: newProgram,
		metrics:    newMetrics(cfg.Registry),
		sessions:   make(map[string]*Session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	return s, nil
}

// Router returns the HTTP handler: bootstrap page, websocket endpoint,
// health, and metrics.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handlePage)
	r.Get("/ws", s.handleWS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Router(),
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown closes every session and the HTTP listener.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()
	for _, sess := range open {
		sess.Close()
	}
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// SessionCount returns the number of connected sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	sess := newSession(s, conn)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.metrics.sessionsTotal.Inc()
	s.metrics.sessionsActive.Inc()
	s.logger.Info("session connected", "session_id", sess.ID, "remote", r.RemoteAddr)

	go sess.run()
}

func (s *Server) dropSession(sess *Session) {
	s.mu.Lock()
	_, known := s.sessions[sess.ID]
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	if known {
		s.metrics.sessionsActive.Dec()
		s.logger.Info("session closed", "session_id", sess.ID)
	}
}

// newSessionID generates a random session ID. Panics if the system
// entropy source fails.
func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("server: crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}
