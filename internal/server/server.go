// Package server exposes the JSON API and the live market websocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"legacy-guardians/internal/coach"
	"legacy-guardians/internal/store"
	"legacy-guardians/internal/stream"
)

// Server wires the advisory bridge, the data store and the sample hub
// behind HTTP.
type Server struct {
	advisor coach.Advisor
	store   store.DataStore
	hub     *stream.Hub
	logger  zerolog.Logger

	httpServer *http.Server
}

// New creates a server. The hub may be nil when no live session is
// running; the websocket endpoint then rejects connections.
func New(addr string, advisor coach.Advisor, dataStore store.DataStore, hub *stream.Hub, logger zerolog.Logger) *Server {
	s := &Server{
		advisor: advisor,
		store:   dataStore,
		hub:     hub,
		logger:  logger.With().Str("component", "server").Logger(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/coach-chat", s.handleCoachChat)
	mux.HandleFunc("/api/feedback", s.handleFeedback)
	mux.HandleFunc("/api/newsletter/subscribe", s.handleSubscribe)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/healthz", s.handleHealthz)
	mux.HandleFunc("/ws/market", s.handleMarketWS)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.withLogging(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether the address looks plausible enough to store.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}
