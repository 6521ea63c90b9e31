package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/k8s-lovers-korea/test-go-app/pkg/metrics"
	"github.com/k8s-lovers-korea/test-go-app/pkg/validation"
)

// handleSimulateBlock handles POST /simulate/block. The worker is spawned
// fire-and-forget; the 202 acknowledges the spawn, not the completion.
func (s *Server) handleSimulateBlock(w http.ResponseWriter, r *http.Request) {
	receipt := s.controller.TriggerBlock()

	addCounter(metrics.BlockingSimulationsTotal, 1)
	s.recordBlockedWorkers()

	writeJSON(w, http.StatusAccepted, BlockResponse{
		Message:             "Blocking operation started",
		DurationSeconds:     int(receipt.HoldDuration / time.Second),
		WorkerID:            receipt.WorkerID,
		BlockedWorkersCount: receipt.BlockedWorkers,
	})
}

// handleBlockStatus handles GET /simulate/block/status.
func (s *Server) handleBlockStatus(w http.ResponseWriter, r *http.Request) {
	status := s.controller.BlockStatus()
	s.recordBlockedWorkers()

	writeJSON(w, http.StatusOK, BlockStatusResponse{
		BlockedWorkersCount: status.BlockedWorkers,
		BlockedWorkerIDs:    status.WorkerIDs,
		LockAvailable:       status.LockAvailable,
	})
}

// handleSimulateTimeout handles GET /simulate/timeout/{duration}. The
// handler goroutine sleeps for the requested seconds; durations outside
// the configured bounds are rejected before any sleep.
func (s *Server) handleSimulateTimeout(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("duration")
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		s.writeFieldErrors(w, validation.NewTypeError("duration", validation.LocationPath, "integer", raw))
		return
	}

	report, err := s.controller.SimulateTimeout(r.Context(), seconds)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			s.writeValidationError(w, verr)
		case r.Context().Err() != nil:
			// Client gave up mid-sleep; there is nobody left to answer.
			s.log.Info("timeout simulation abandoned by client",
				"requested_seconds", seconds, "error", err)
		default:
			s.log.Error("timeout simulation failed", "error", err)
			recordErrorKind(errKindInternal)
			writeError(w, http.StatusInternalServerError, "internal_error", ErrMsgInternal)
		}
		return
	}

	addCounter(metrics.TimeoutSimulationsTotal, 1)
	writeJSON(w, http.StatusOK, TimeoutResponse{
		Message:           "Operation completed after timeout",
		RequestedDuration: int(report.Requested / time.Second),
		ActualDuration:    math.Round(report.Elapsed.Seconds()*100) / 100,
		CompletedAt:       report.CompletedAt.Unix(),
	})
}
