package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k8s-lovers-korea/test-go-app/pkg/logging"
	"github.com/k8s-lovers-korea/test-go-app/pkg/simulation"
)

func newBlockTestServer(t *testing.T, hold time.Duration) *Server {
	t.Helper()
	ctrl := simulation.NewController(simulation.Config{
		HoldDuration: hold,
		MaxTimeout:   300 * time.Second,
		Logger:       logging.Nop(),
	})
	return newTestServer(t, WithController(ctrl))
}

// blockStatusDrained polls the status endpoint without failing the test,
// so it can run inside assert.Eventually.
func blockStatusDrained(s *Server) func() bool {
	return func() bool {
		req := httptest.NewRequest(http.MethodGet, "/simulate/block/status", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		var status BlockStatusResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
			return false
		}
		return status.BlockedWorkersCount == 0 && status.LockAvailable
	}
}

func TestSimulateBlock(t *testing.T) {
	s := newBlockTestServer(t, time.Second)

	rec := serveRequest(t, s, http.MethodPost, "/simulate/block", nil)

	require.Equal(t, http.StatusAccepted, rec.Code)
	resp := decodeBody[BlockResponse](t, rec)
	assert.Equal(t, "Blocking operation started", resp.Message)
	assert.Equal(t, 1, resp.DurationSeconds)
	assert.NotEmpty(t, resp.WorkerID)
	assert.Equal(t, 1, resp.BlockedWorkersCount)

	// The worker is still holding the lock while we probe.
	rec = serveRequest(t, s, http.MethodGet, "/simulate/block/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeBody[BlockStatusResponse](t, rec)
	assert.Equal(t, 1, status.BlockedWorkersCount)
	assert.Contains(t, status.BlockedWorkerIDs, resp.WorkerID)
	assert.False(t, status.LockAvailable)

	// It releases on its own once the hold expires.
	assert.Eventually(t, blockStatusDrained(s), 3*time.Second, 50*time.Millisecond)
}

func TestSimulateBlock_QueuesWorkers(t *testing.T) {
	s := newBlockTestServer(t, 500*time.Millisecond)

	rec := serveRequest(t, s, http.MethodPost, "/simulate/block", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = serveRequest(t, s, http.MethodPost, "/simulate/block", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	second := decodeBody[BlockResponse](t, rec)
	assert.Equal(t, 2, second.BlockedWorkersCount, "second worker queues behind the first")

	// Workers drain sequentially; the second waits out the first.
	assert.Eventually(t, blockStatusDrained(s), 5*time.Second, 50*time.Millisecond)
}

func TestBlockStatus_Idle(t *testing.T) {
	s := newTestServer(t)

	rec := serveRequest(t, s, http.MethodGet, "/simulate/block/status", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeBody[BlockStatusResponse](t, rec)
	assert.Equal(t, 0, status.BlockedWorkersCount)
	assert.Empty(t, status.BlockedWorkerIDs)
	assert.True(t, status.LockAvailable)
}

func TestSimulateTimeout(t *testing.T) {
	s := newTestServer(t)

	start := time.Now()
	rec := serveRequest(t, s, http.MethodGet, "/simulate/timeout/1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[TimeoutResponse](t, rec)
	assert.Equal(t, "Operation completed after timeout", resp.Message)
	assert.Equal(t, 1, resp.RequestedDuration)
	assert.GreaterOrEqual(t, resp.ActualDuration, 1.0)
	assert.GreaterOrEqual(t, time.Since(start), time.Second, "the handler really sleeps")
	assert.WithinDuration(t, time.Now(), time.Unix(resp.CompletedAt, 0), 5*time.Second)
}

func TestSimulateTimeout_InvalidDuration(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		target string
	}{
		{"zero", "/simulate/timeout/0"},
		{"negative", "/simulate/timeout/-5"},
		{"over maximum", "/simulate/timeout/301"},
		{"not a number", "/simulate/timeout/abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveRequest(t, s, http.MethodGet, tt.target, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			errResp := decodeBody[ErrorResponse](t, rec)
			assert.Equal(t, "validation_error", errResp.Error)
		})
	}
}

func TestSimulateTimeout_ClientDisconnect(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/simulate/timeout/2", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	s.Handler().ServeHTTP(rec, req)

	assert.Less(t, time.Since(start), time.Second, "cancellation cuts the sleep short")
	assert.Zero(t, rec.Body.Len(), "nothing is written for an abandoned request")
}
