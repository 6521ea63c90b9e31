// Error handling utilities for the HTTP API.
// This file maps internal failures onto safe client responses: detailed
// errors go to the log, clients get constant messages.

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/k8s-lovers-korea/test-go-app/internal/storage"
	"github.com/k8s-lovers-korea/test-go-app/pkg/api/backendclient"
	"github.com/k8s-lovers-korea/test-go-app/pkg/metrics"
	"github.com/k8s-lovers-korea/test-go-app/pkg/validation"
)

// Safe, user-facing error messages.
const (
	// ErrMsgItemNotFound is returned when an item lookup misses.
	ErrMsgItemNotFound = "Item not found"

	// ErrMsgResourceNotFound is returned when the backend reports 404.
	ErrMsgResourceNotFound = "Resource not found"

	// ErrMsgInvalidJSON is returned for malformed request bodies.
	ErrMsgInvalidJSON = "Invalid JSON in request body"

	// ErrMsgValidation is returned when request validation fails.
	ErrMsgValidation = "Request validation failed"

	// ErrMsgBackendTimeout is returned when the backend misses its deadline.
	ErrMsgBackendTimeout = "External service timeout"

	// ErrMsgBackendUnavailable is returned when the backend is unreachable.
	ErrMsgBackendUnavailable = "External service unavailable"

	// ErrMsgInternal is the generic message for unexpected failures.
	ErrMsgInternal = "An internal error occurred"
)

// Error kinds recorded on the errors counter.
const (
	errKindValidation = "validation"
	errKindNotFound   = "not_found"
	errKindUpstream   = "upstream"
	errKindInternal   = "internal"
)

// recordErrorKind bumps the client-visible error counter.
func recordErrorKind(kind string) {
	if metrics.ErrorsTotal != nil {
		if vec, err := metrics.ErrorsTotal.WithLabels(kind); err == nil {
			_ = vec.Inc()
		}
	}
}

// writeValidationError reports a failed validation with per-field detail.
func (s *Server) writeValidationError(w http.ResponseWriter, verr *validation.Error) {
	recordErrorKind(errKindValidation)
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: ErrMsgValidation,
		Details: verr.Result.Errors,
	})
}

// writeFieldErrors reports ad hoc field errors, for failures detected
// before a payload type gets involved (path and query parsing).
func (s *Server) writeFieldErrors(w http.ResponseWriter, fieldErrs ...*validation.FieldError) {
	result := validation.NewResult()
	for _, fe := range fieldErrs {
		result.AddError(fe)
	}
	recordErrorKind(errKindValidation)
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: ErrMsgValidation,
		Details: result.Errors,
	})
}

// writeStoreError maps item store failures onto responses: missing items
// become 404, validation failures 400 with detail, anything else is logged
// and reported as a generic 500.
func (s *Server) writeStoreError(w http.ResponseWriter, err error, operation string) {
	var verr *validation.Error
	switch {
	case errors.Is(err, storage.ErrNotFound):
		recordErrorKind(errKindNotFound)
		writeError(w, http.StatusNotFound, "not_found", ErrMsgItemNotFound)
	case errors.As(err, &verr):
		s.log.Warn("request validation failed", "operation", operation, "error", err)
		s.writeValidationError(w, verr)
	default:
		s.log.Error("store operation failed", "operation", operation, "error", err)
		recordErrorKind(errKindInternal)
		writeError(w, http.StatusInternalServerError, "internal_error", ErrMsgInternal)
	}
}

// writeBackendError maps backend client failures onto the gateway's
// upstream taxonomy: 404 stays 404, a missed deadline becomes 504, an
// unreachable backend 503, and any other upstream error status passes
// through with the upstream's own message.
func (s *Server) writeBackendError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	var statusErr *backendclient.StatusError
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		s.log.Warn("request validation failed", "operation", operation, "error", err)
		s.writeValidationError(w, verr)
		return
	case errors.Is(err, backendclient.ErrNotFound):
		recordErrorKind(errKindNotFound)
		s.recordProxyRequest(r.Method, http.StatusNotFound)
		writeError(w, http.StatusNotFound, "not_found", ErrMsgResourceNotFound)
	case errors.Is(err, backendclient.ErrTimeout):
		s.log.Error("backend request timed out", "operation", operation, "error", err)
		recordErrorKind(errKindUpstream)
		s.recordProxyRequest(r.Method, http.StatusGatewayTimeout)
		writeError(w, http.StatusGatewayTimeout, "upstream_timeout", ErrMsgBackendTimeout)
	case errors.Is(err, backendclient.ErrUnavailable):
		s.log.Error("backend unreachable", "operation", operation, "error", err)
		recordErrorKind(errKindUpstream)
		s.recordProxyRequest(r.Method, http.StatusServiceUnavailable)
		writeError(w, http.StatusServiceUnavailable, "upstream_unavailable", ErrMsgBackendUnavailable)
	case errors.As(err, &statusErr):
		s.log.Warn("backend returned error status",
			"operation", operation,
			"status", statusErr.StatusCode,
			"message", statusErr.Body)
		recordErrorKind(errKindUpstream)
		s.recordProxyRequest(r.Method, statusErr.StatusCode)
		writeError(w, statusErr.StatusCode, "upstream_error",
			fmt.Sprintf("External API error: %s", statusErr.Body))
	default:
		s.log.Error("backend request failed", "operation", operation, "error", err)
		recordErrorKind(errKindInternal)
		writeError(w, http.StatusInternalServerError, "internal_error", ErrMsgInternal)
	}
}
