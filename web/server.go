package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// NewRouter builds the shell's handler. Every request reads the session
// view afresh, so a session ended by the HTTP client is visible on the
// next page load.
func NewRouter(session SessionView) http.Handler {
	p := newPages()
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		middleware.RequestID,
		requestLogger,
		loadState(session),
	)

	for _, route := range Routes {
		r.With(guard(route.Access, p)).Get(route.Pattern, p.placeholder(route.Title))
	}
	r.Post("/logout", logout(session))
	r.NotFound(p.notFound)
	return r
}

func logout(session SessionView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := session.Invalidate(r.Context()); err != nil {
			log.Error().Err(err).Msg("Logout failed")
			http.Error(w, "logout failed", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

// requestLogger logs one line per request with zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("dur", time.Since(start)).
			Msg("http")
	})
}

// Notifier delivers the session-ended signal.
type Notifier interface {
	Subscribe() (<-chan struct{}, func())
}

// Server runs the web shell until its context is cancelled.
type Server struct {
	http     *http.Server
	notifier Notifier
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, session SessionView, notifier Notifier) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(session),
			ReadHeaderTimeout: 10 * time.Second,
		},
		notifier: notifier,
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	signal, unsubscribe := s.notifier.Subscribe()
	defer unsubscribe()
	go func() {
		for range signal {
			log.Warn().Msg("Session ended; protected pages now redirect to /login")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("Web shell listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown failed: %w", err)
	}
	log.Info().Msg("Web shell stopped")
	return nil
}
