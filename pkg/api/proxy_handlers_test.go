package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k8s-lovers-korea/test-go-app/pkg/api/backendclient"
)

// newProxyTestServer wires a gateway server to a stub backend. The stub is
// torn down with the test.
func newProxyTestServer(t *testing.T, backendHandler http.HandlerFunc, clientOpts ...backendclient.Option) *Server {
	t.Helper()
	backend := httptest.NewServer(backendHandler)
	t.Cleanup(backend.Close)
	return newTestServer(t, WithBackendClient(backendclient.New(backend.URL, clientOpts...)))
}

// stubJSON answers every request with a fixed status and JSON body.
func stubJSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}
}

func TestListEntities_Passthrough(t *testing.T) {
	s := newProxyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/entities", r.URL.Path)
		stubJSON(http.StatusOK, `[{"id":1,"name":"alpha"},{"id":2,"name":"beta"}]`)(w, r)
	})

	rec := serveRequest(t, s, http.MethodGet, "/api/entities", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	entities := decodeBody[[]backendclient.Entity](t, rec)
	require.Len(t, entities, 2)
	assert.Equal(t, int64(1), entities[0].ID)
	assert.Equal(t, "alpha", entities[0].Name)
}

func TestGetEntity_Passthrough(t *testing.T) {
	s := newProxyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/entities/7", r.URL.Path)
		stubJSON(http.StatusOK, `{"id":7,"name":"alpha","description":"first"}`)(w, r)
	})

	rec := serveRequest(t, s, http.MethodGet, "/api/entities/7", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	entity := decodeBody[backendclient.Entity](t, rec)
	assert.Equal(t, int64(7), entity.ID)
	assert.Equal(t, "alpha", entity.Name)
	assert.Equal(t, "first", entity.Description)
}

func TestGetEntity_InvalidID(t *testing.T) {
	var backendCalls atomic.Int32
	s := newProxyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		backendCalls.Add(1)
	})

	rec := serveRequest(t, s, http.MethodGet, "/api/entities/abc", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", errResp.Error)
	assert.Zero(t, backendCalls.Load(), "an unparseable id must not reach the backend")
}

func TestGetEntity_BackendNotFound(t *testing.T) {
	s := newProxyTestServer(t, stubJSON(http.StatusNotFound, `{"detail":"no such entity"}`))

	rec := serveRequest(t, s, http.MethodGet, "/api/entities/99", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	errResp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "not_found", errResp.Error)
	assert.Equal(t, ErrMsgResourceNotFound, errResp.Message)
}

func TestCreateEntity_Passthrough(t *testing.T) {
	s := newProxyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req backendclient.EntityCreate
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gamma", req.Name)

		stubJSON(http.StatusCreated, `{"id":42,"name":"gamma"}`)(w, r)
	})

	rec := serveRequest(t, s, http.MethodPost, "/api/entities", backendclient.EntityCreate{
		Name:        "gamma",
		Description: "third",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	entity := decodeBody[backendclient.Entity](t, rec)
	assert.Equal(t, int64(42), entity.ID)
}

func TestCreateEntity_LocalValidation(t *testing.T) {
	var backendCalls atomic.Int32
	s := newProxyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		backendCalls.Add(1)
	})

	tests := []struct {
		name string
		body backendclient.EntityCreate
	}{
		{"missing name", backendclient.EntityCreate{Description: "x"}},
		{"name too long", backendclient.EntityCreate{Name: strings.Repeat("n", 101)}},
		{"description too long", backendclient.EntityCreate{
			Name:        "ok",
			Description: strings.Repeat("d", 501),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveRequest(t, s, http.MethodPost, "/api/entities", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			errResp := decodeBody[ErrorResponse](t, rec)
			assert.Equal(t, "validation_error", errResp.Error)
			assert.NotEmpty(t, errResp.Details)
		})
	}
	assert.Zero(t, backendCalls.Load(), "invalid payloads must not reach the backend")
}

func TestUpdateEntity_Passthrough(t *testing.T) {
	s := newProxyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/entities/7", r.URL.Path)
		stubJSON(http.StatusOK, `{"id":7,"name":"renamed"}`)(w, r)
	})

	rec := serveRequest(t, s, http.MethodPut, "/api/entities/7", backendclient.EntityUpdate{
		Name: strPtr("renamed"),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	entity := decodeBody[backendclient.Entity](t, rec)
	assert.Equal(t, "renamed", entity.Name)
}

func TestDeleteEntity_Passthrough(t *testing.T) {
	s := newProxyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		stubJSON(http.StatusOK, `{"message":"Entity 7 deleted"}`)(w, r)
	})

	rec := serveRequest(t, s, http.MethodDelete, "/api/entities/7", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[backendclient.DeleteEntityResponse](t, rec)
	assert.Equal(t, "Entity 7 deleted", resp.Message)
}

func TestSearchEntities_Passthrough(t *testing.T) {
	s := newProxyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/entities/search", r.URL.Path)
		assert.Equal(t, "al", r.URL.Query().Get("name"))
		stubJSON(http.StatusOK, `[{"id":1,"name":"alpha"}]`)(w, r)
	})

	rec := serveRequest(t, s, http.MethodGet, "/api/entities/search?name=al", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	entities := decodeBody[[]backendclient.Entity](t, rec)
	require.Len(t, entities, 1)
	assert.Equal(t, "alpha", entities[0].Name)
}

func TestSearchEntities_NameRequired(t *testing.T) {
	var backendCalls atomic.Int32
	s := newProxyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		backendCalls.Add(1)
	})

	rec := serveRequest(t, s, http.MethodGet, "/api/entities/search", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", errResp.Error)
	assert.Zero(t, backendCalls.Load())
}

func TestBackendErrorPassthrough(t *testing.T) {
	tests := []struct {
		name        string
		stub        http.HandlerFunc
		wantStatus  int
		wantMessage string
	}{
		{
			"detail envelope",
			stubJSON(http.StatusInternalServerError, `{"detail":"database offline"}`),
			http.StatusInternalServerError,
			"External API error: database offline",
		},
		{
			"message envelope",
			stubJSON(http.StatusConflict, `{"message":"duplicate entity"}`),
			http.StatusConflict,
			"External API error: duplicate entity",
		},
		{
			"plain text body",
			stubJSON(http.StatusBadGateway, `bad gateway`),
			http.StatusBadGateway,
			"External API error: bad gateway",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newProxyTestServer(t, tt.stub)

			rec := serveRequest(t, s, http.MethodGet, "/api/entities", nil)

			require.Equal(t, tt.wantStatus, rec.Code)
			errResp := decodeBody[ErrorResponse](t, rec)
			assert.Equal(t, "upstream_error", errResp.Error)
			assert.Equal(t, tt.wantMessage, errResp.Message)
		})
	}
}

func TestBackendTimeout(t *testing.T) {
	s := newProxyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}, backendclient.WithTimeout(50*time.Millisecond))

	rec := serveRequest(t, s, http.MethodGet, "/api/entities", nil)

	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	errResp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "upstream_timeout", errResp.Error)
	assert.Equal(t, ErrMsgBackendTimeout, errResp.Message)
}

func TestBackendUnavailable(t *testing.T) {
	// Port 1 is never listening.
	s := newTestServer(t, WithBackendClient(backendclient.New("http://127.0.0.1:1")))

	rec := serveRequest(t, s, http.MethodGet, "/api/entities", nil)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	errResp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "upstream_unavailable", errResp.Error)
	assert.Equal(t, ErrMsgBackendUnavailable, errResp.Message)
}

func TestBackendHealth_Passthrough(t *testing.T) {
	s := newProxyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/test/health", r.URL.Path)
		stubJSON(http.StatusOK, `{"status":"UP","active_threads":3}`)(w, r)
	})

	rec := serveRequest(t, s, http.MethodGet, "/api/test/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	health := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "UP", health["status"])
}

func TestScenarioEndpoints_PassSeconds(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantPath    string
		wantSeconds string
	}{
		{"block thread explicit", "/api/test/block-thread?seconds=2", "/api/test/block-thread", "2"},
		{"block thread default", "/api/test/block-thread", "/api/test/block-thread", "30"},
		{"hang default", "/api/test/hang", "/api/test/hang", "90"},
		{"cpu intensive default", "/api/test/cpu-intensive", "/api/test/cpu-intensive", "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newProxyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.Equal(t, tt.wantSeconds, r.URL.Query().Get("seconds"))
				stubJSON(http.StatusOK, `{"message":"scenario started"}`)(w, r)
			})

			rec := serveRequest(t, s, http.MethodPost, tt.target, nil)

			require.Equal(t, http.StatusOK, rec.Code)
			resp := decodeBody[map[string]any](t, rec)
			assert.Equal(t, "scenario started", resp["message"])
		})
	}
}

func TestScenarioEndpoints_SecondsValidation(t *testing.T) {
	var backendCalls atomic.Int32
	s := newProxyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		backendCalls.Add(1)
	})

	tests := []struct {
		name   string
		target string
	}{
		{"zero", "/api/test/block-thread?seconds=0"},
		{"negative", "/api/test/hang?seconds=-1"},
		{"over maximum", "/api/test/cpu-intensive?seconds=301"},
		{"not a number", "/api/test/block-thread?seconds=soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveRequest(t, s, http.MethodPost, tt.target, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			errResp := decodeBody[ErrorResponse](t, rec)
			assert.Equal(t, "validation_error", errResp.Error)
		})
	}
	assert.Zero(t, backendCalls.Load(), "invalid seconds must not trigger a scenario")
}

func TestBackendThreadStatus_Passthrough(t *testing.T) {
	s := newProxyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/test/thread-status", r.URL.Path)
		stubJSON(http.StatusOK, `{"total_threads":10,"blocked_threads":2}`)(w, r)
	})

	rec := serveRequest(t, s, http.MethodGet, "/api/test/thread-status", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeBody[map[string]any](t, rec)
	assert.EqualValues(t, 10, status["total_threads"])
}
