package api

import "net/http"

// registerRoutes wires every route onto the mux. Go 1.22 method patterns
// keep method dispatch in the mux itself; the literal /items/search and
// /api/entities/search routes win over their {id} siblings by specificity.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Application info and liveness
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)
	mux.Handle("GET /metrics", s.registry.Handler())

	// Item CRUD, search, and bulk operations
	mux.HandleFunc("POST /items", s.handleCreateItem)
	mux.HandleFunc("GET /items", s.handleListItems)
	mux.HandleFunc("GET /items/search", s.handleSearchItems)
	mux.HandleFunc("GET /items/{id}", s.handleGetItem)
	mux.HandleFunc("PUT /items/{id}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /items/{id}", s.handleDeleteItem)
	mux.HandleFunc("POST /items/bulk", s.handleBulkCreateItems)
	mux.HandleFunc("PUT /items/bulk-update", s.handleBulkUpdateItems)
	mux.HandleFunc("POST /items/delete", s.handleBulkDeleteItems)

	// Blocking and timeout simulation
	mux.HandleFunc("POST /simulate/block", s.handleSimulateBlock)
	mux.HandleFunc("GET /simulate/block/status", s.handleBlockStatus)
	mux.HandleFunc("GET /simulate/timeout/{duration}", s.handleSimulateTimeout)

	// Actuator introspection
	mux.HandleFunc("GET /actuator/health", s.handleActuatorHealth)
	mux.HandleFunc("GET /actuator/info", s.handleActuatorInfo)
	mux.HandleFunc("GET /actuator/env", s.handleActuatorEnv)
	mux.HandleFunc("GET /actuator/threads", s.handleActuatorThreads)
	mux.HandleFunc("POST /actuator/restart", s.handleActuatorRestart)

	// Backend entity proxy
	mux.HandleFunc("GET /api/entities", s.handleListEntities)
	mux.HandleFunc("POST /api/entities", s.handleCreateEntity)
	mux.HandleFunc("GET /api/entities/search", s.handleSearchEntities)
	mux.HandleFunc("GET /api/entities/{id}", s.handleGetEntity)
	mux.HandleFunc("PUT /api/entities/{id}", s.handleUpdateEntity)
	mux.HandleFunc("DELETE /api/entities/{id}", s.handleDeleteEntity)

	// Backend test-scenario proxy
	mux.HandleFunc("GET /api/test/health", s.handleBackendHealth)
	mux.HandleFunc("POST /api/test/block-thread", s.handleBackendBlockThread)
	mux.HandleFunc("POST /api/test/hang", s.handleBackendHang)
	mux.HandleFunc("POST /api/test/cpu-intensive", s.handleBackendCPUIntensive)
	mux.HandleFunc("GET /api/test/thread-status", s.handleBackendThreadStatus)
}
