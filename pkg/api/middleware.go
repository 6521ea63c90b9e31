package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/k8s-lovers-korea/test-go-app/pkg/metrics"
)

// traceHeader carries the per-request trace id, inbound and outbound.
const traceHeader = "X-Trace-ID"

// statusCapturingResponseWriter wraps http.ResponseWriter to capture the
// status code for logging and metrics.
type statusCapturingResponseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
}

func (w *statusCapturingResponseWriter) WriteHeader(code int) {
	if !w.headerWritten {
		w.statusCode = code
		w.headerWritten = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusCapturingResponseWriter) Write(b []byte) (int, error) {
	if !w.headerWritten {
		w.statusCode = http.StatusOK
		w.headerWritten = true
	}
	return w.ResponseWriter.Write(b)
}

// Unwrap supports http.ResponseController.
func (w *statusCapturingResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// withObservability assigns each request a trace id, logs the outcome, and
// records the request counter and duration histogram.
func (s *Server) withObservability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		traceID := r.Header.Get(traceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		w.Header().Set(traceHeader, traceID)

		sw := &statusCapturingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		pattern := s.routePattern(r)

		s.log.Info("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"trace_id", traceID,
		)

		if metrics.RequestsTotal != nil {
			status := strconv.Itoa(sw.statusCode)
			if vec, err := metrics.RequestsTotal.WithLabels(r.Method, pattern, status); err == nil {
				_ = vec.Inc()
			}
		}
		if metrics.RequestDuration != nil {
			if vec, err := metrics.RequestDuration.WithLabels(r.Method, pattern); err == nil {
				vec.Observe(duration.Seconds())
			}
		}
	})
}

// routePattern returns the mux pattern that matched the request, with the
// method prefix stripped. Using the pattern rather than the raw URL keeps
// the metric label space bounded when paths carry ids.
func (s *Server) routePattern(r *http.Request) string {
	_, pattern := s.mux.Handler(r)
	if pattern == "" {
		return "unmatched"
	}
	if _, after, found := strings.Cut(pattern, " "); found {
		return after
	}
	return pattern
}
