package api

import (
	"net/http"
	"strconv"

	"github.com/k8s-lovers-korea/test-go-app/pkg/api/backendclient"
	"github.com/k8s-lovers-korea/test-go-app/pkg/validation"
)

// entityID parses the {id} path value of an entity route. On failure it
// answers the request with a 400 and reports false.
func (s *Server) entityID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.writeFieldErrors(w, validation.NewTypeError("id", validation.LocationPath, "integer", raw))
		return 0, false
	}
	return id, true
}

// scenarioSeconds parses the optional seconds query parameter of a
// test-scenario route, applying the scenario's default and the shared
// bounds. On failure it answers the request with a 400 and reports false.
func (s *Server) scenarioSeconds(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("seconds")
	if raw == "" {
		return def, true
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		s.writeFieldErrors(w, validation.NewTypeError("seconds", validation.LocationQuery, "integer", raw))
		return 0, false
	}
	if seconds < backendclient.MinScenarioSeconds {
		s.writeFieldErrors(w, validation.NewMinError("seconds", validation.LocationQuery,
			backendclient.MinScenarioSeconds, seconds))
		return 0, false
	}
	if seconds > backendclient.MaxScenarioSeconds {
		s.writeFieldErrors(w, validation.NewMaxError("seconds", validation.LocationQuery,
			backendclient.MaxScenarioSeconds, seconds))
		return 0, false
	}
	return seconds, true
}

// handleListEntities handles GET /api/entities.
func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	entities, err := s.backend.ListEntities(r.Context())
	if err != nil {
		s.writeBackendError(w, r, err, "list entities")
		return
	}
	s.recordProxyRequest(r.Method, http.StatusOK)
	writeJSON(w, http.StatusOK, entities)
}

// handleGetEntity handles GET /api/entities/{id}.
func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.entityID(w, r)
	if !ok {
		return
	}

	entity, err := s.backend.GetEntity(r.Context(), id)
	if err != nil {
		s.writeBackendError(w, r, err, "get entity")
		return
	}
	s.recordProxyRequest(r.Method, http.StatusOK)
	writeJSON(w, http.StatusOK, entity)
}

// handleCreateEntity handles POST /api/entities. The payload is validated
// locally before the backend round-trip.
func (s *Server) handleCreateEntity(w http.ResponseWriter, r *http.Request) {
	var req backendclient.EntityCreate
	if !s.decodeJSONBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.writeBackendError(w, r, err, "create entity")
		return
	}

	entity, err := s.backend.CreateEntity(r.Context(), &req)
	if err != nil {
		s.writeBackendError(w, r, err, "create entity")
		return
	}
	s.recordProxyRequest(r.Method, http.StatusCreated)
	writeJSON(w, http.StatusCreated, entity)
}

// handleUpdateEntity handles PUT /api/entities/{id}.
func (s *Server) handleUpdateEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.entityID(w, r)
	if !ok {
		return
	}

	var req backendclient.EntityUpdate
	if !s.decodeJSONBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.writeBackendError(w, r, err, "update entity")
		return
	}

	entity, err := s.backend.UpdateEntity(r.Context(), id, &req)
	if err != nil {
		s.writeBackendError(w, r, err, "update entity")
		return
	}
	s.recordProxyRequest(r.Method, http.StatusOK)
	writeJSON(w, http.StatusOK, entity)
}

// handleDeleteEntity handles DELETE /api/entities/{id}.
func (s *Server) handleDeleteEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.entityID(w, r)
	if !ok {
		return
	}

	resp, err := s.backend.DeleteEntity(r.Context(), id)
	if err != nil {
		s.writeBackendError(w, r, err, "delete entity")
		return
	}
	s.recordProxyRequest(r.Method, http.StatusOK)
	writeJSON(w, http.StatusOK, resp)
}

// handleSearchEntities handles GET /api/entities/search?name=.
func (s *Server) handleSearchEntities(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		s.writeFieldErrors(w, validation.NewRequiredError("name", validation.LocationQuery))
		return
	}

	entities, err := s.backend.SearchEntities(r.Context(), name)
	if err != nil {
		s.writeBackendError(w, r, err, "search entities")
		return
	}
	s.recordProxyRequest(r.Method, http.StatusOK)
	writeJSON(w, http.StatusOK, entities)
}

// handleBackendHealth handles GET /api/test/health, relaying the
// backend's own health view.
func (s *Server) handleBackendHealth(w http.ResponseWriter, r *http.Request) {
	health, err := s.backend.Health(r.Context())
	if err != nil {
		s.writeBackendError(w, r, err, "backend health")
		return
	}
	s.recordProxyRequest(r.Method, http.StatusOK)
	writeJSON(w, http.StatusOK, health)
}

// handleBackendBlockThread handles POST /api/test/block-thread.
func (s *Server) handleBackendBlockThread(w http.ResponseWriter, r *http.Request) {
	seconds, ok := s.scenarioSeconds(w, r, backendclient.DefaultBlockSeconds)
	if !ok {
		return
	}

	resp, err := s.backend.BlockThread(r.Context(), seconds)
	if err != nil {
		s.writeBackendError(w, r, err, "block thread scenario")
		return
	}
	s.recordProxyRequest(r.Method, http.StatusOK)
	writeJSON(w, http.StatusOK, resp)
}

// handleBackendHang handles POST /api/test/hang.
func (s *Server) handleBackendHang(w http.ResponseWriter, r *http.Request) {
	seconds, ok := s.scenarioSeconds(w, r, backendclient.DefaultHangSeconds)
	if !ok {
		return
	}

	resp, err := s.backend.Hang(r.Context(), seconds)
	if err != nil {
		s.writeBackendError(w, r, err, "hang scenario")
		return
	}
	s.recordProxyRequest(r.Method, http.StatusOK)
	writeJSON(w, http.StatusOK, resp)
}

// handleBackendCPUIntensive handles POST /api/test/cpu-intensive.
func (s *Server) handleBackendCPUIntensive(w http.ResponseWriter, r *http.Request) {
	seconds, ok := s.scenarioSeconds(w, r, backendclient.DefaultCPUSeconds)
	if !ok {
		return
	}

	resp, err := s.backend.CPUIntensive(r.Context(), seconds)
	if err != nil {
		s.writeBackendError(w, r, err, "cpu intensive scenario")
		return
	}
	s.recordProxyRequest(r.Method, http.StatusOK)
	writeJSON(w, http.StatusOK, resp)
}

// handleBackendThreadStatus handles GET /api/test/thread-status.
func (s *Server) handleBackendThreadStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.backend.ThreadStatus(r.Context())
	if err != nil {
		s.writeBackendError(w, r, err, "thread status")
		return
	}
	s.recordProxyRequest(r.Method, http.StatusOK)
	writeJSON(w, http.StatusOK, status)
}
