package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requests by route pattern and response status
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordjumble_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "status"})

	// search time per operation: solve, final, puzzle
	solveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wordjumble_solve_duration_seconds",
		Help:    "Time spent solving a query",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"operation"})

	// queries answered with no solution
	unsolvedQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordjumble_unsolved_queries_total",
		Help: "Queries that were valid but had no solution",
	}, []string{"operation"})
)

func observeSolve(operation string, start time.Time, found int) {
	solveDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if found == 0 {
		unsolvedQueries.WithLabelValues(operation).Inc()
	}
}

// countRequests records every request under its chi route pattern so that
// path parameters do not explode the label set.
func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}
