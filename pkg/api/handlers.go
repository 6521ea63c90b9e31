package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/k8s-lovers-korea/test-go-app/pkg/metrics"
	"github.com/k8s-lovers-korea/test-go-app/pkg/validation"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a standard JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// decodeJSONBody decodes the request body into dst. On failure it answers
// the request with a 400 and reports false.
func (s *Server) decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.log.Debug("invalid request body", "path", r.URL.Path, "error", err)
		s.writeFieldErrors(w, validation.NewInvalidJSONError(err.Error()))
		return false
	}
	return true
}

// intQuery returns the named integer query parameter, or def when absent.
// The second result is false when the parameter is present but malformed.
func intQuery(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// floatQuery returns the named float query parameter, or nil when absent.
// The second result is false when the parameter is present but malformed.
func floatQuery(r *http.Request, name string) (*float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// boolQuery returns the named boolean query parameter, or nil when absent.
// The second result is false when the parameter is present but malformed.
func boolQuery(r *http.Request, name string) (*bool, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// recordItemsCount refreshes the stored-items gauge.
func (s *Server) recordItemsCount() {
	if metrics.ItemsCount != nil {
		_ = metrics.ItemsCount.Set(float64(s.store.Count()))
	}
}

// recordBlockedWorkers refreshes the blocked-workers gauge.
func (s *Server) recordBlockedWorkers() {
	if metrics.BlockedWorkers != nil {
		_ = metrics.BlockedWorkers.Set(float64(s.controller.Stats().BlockedWorkers))
	}
}

// recordProxyRequest counts one request relayed to the backend.
func (s *Server) recordProxyRequest(method string, status int) {
	if metrics.ProxyRequestsTotal != nil {
		if vec, err := metrics.ProxyRequestsTotal.WithLabels(method, strconv.Itoa(status)); err == nil {
			_ = vec.Inc()
		}
	}
}

// addCounter bumps a plain counter by delta, tolerating an uninitialized
// metrics package in tests.
func addCounter(c *metrics.Counter, delta float64) {
	if c != nil {
		_ = c.Add(delta)
	}
}
