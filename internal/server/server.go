package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an http.Handler that knows which route patterns it serves.
type Handler interface {
	http.Handler
	Routes() []string // [http.ServeMux] patterns such as "POST /auth/login"
}

// Router defines HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler, guards ...Middleware)
	Patterns() []string
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// New wires the development API around backend.
func New(backend *Backend, logger *log.Logger) http.Handler {
	router := NewBasicRouter()
	router.Use(Recover(logger), Logging(logger))

	router.Handler(NewAuthHandler(backend))

	router.Handler(NewLibraryHandler(backend), RequireBearer(backend))

	router.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "routes": router.Patterns()})
	}))

	return router
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("development API listening", "addr", ln.Addr().String())
		errs <- srv.Serve(ln)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		logger.Info("shutting down development API")
		return srv.Shutdown(shutdownCtx)
	}
}
