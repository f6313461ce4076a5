/*
Package httpapi exposes the jumble solver over HTTP.

Routes:

	GET  /healthz              liveness and dictionary statistics
	GET  /v1/solve/{letters}   single jumble
	POST /v1/final             {"letters": "TUMUTHT", "lengths": [4, 3]}
	POST /v1/puzzle            whole puzzle in circle notation
	GET  /metrics              Prometheus metrics

Errors are JSON objects with an error message and the status code. Rejected
queries get 400, searches past the configured timeout 408.
*/
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bastiangx/wordjumble/internal/logger"
	"github.com/bastiangx/wordjumble/pkg/config"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the handler's routes and the metrics endpoint.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(countRequests)

	r.Get("/healthz", h.Healthz)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/solve/{letters}", h.SolveOne)
		r.Post("/final", h.SolveFinal)
		r.Post("/puzzle", h.SolvePuzzle)
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Run serves the router on cfg.Addr and blocks until ctx is cancelled,
// then shuts the server down gracefully.
func Run(ctx context.Context, h *Handler, cfg config.HTTPConfig) error {
	httpLog := logger.New("http")
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewRouter(h),
		ReadTimeout:  time.Duration(cfg.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.WriteTimeoutMs) * time.Millisecond,
		ErrorLog:     httpLog.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		httpLog.Debug("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutMs)*time.Millisecond)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			httpLog.Errorf("Shutdown: %v", err)
		}
	}()

	httpLog.Infof("Listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	<-shutdownDone
	return nil
}
