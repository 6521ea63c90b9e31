package api

import (
	"math"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/k8s-lovers-korea/test-go-app/pkg/metrics"
)

// restartGracePeriod is how long the restart endpoint waits after
// responding before the process exits.
const restartGracePeriod = 2 * time.Second

// handleRoot handles GET /, describing the application and its endpoints.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message: s.cfg.App.Name,
		Version: s.cfg.App.Version,
		Features: map[string]string{
			"crud_operations":   "Full CRUD operations",
			"bulk_operations":   "Batch create, update, and delete",
			"search_filtering":  "Search with multiple criteria",
			"thread_simulation": "Blocking and timeout scenarios",
		},
		Endpoints: map[string]any{
			"openapi": "/openapi.json",
			"health":  "/health",
			"stats":   "/stats",
			"metrics": "/metrics",
			"items": map[string]string{
				"crud":        "/items",
				"search":      "/items/search",
				"bulk_create": "/items/bulk",
				"bulk_update": "/items/bulk-update",
				"bulk_delete": "/items/delete",
			},
			"simulation": map[string]string{
				"block":        "/simulate/block",
				"block_status": "/simulate/block/status",
				"timeout":      "/simulate/timeout/{duration}",
			},
			"entities": map[string]string{
				"crud":      "/api/entities",
				"get_by_id": "/api/entities/{id}",
				"search":    "/api/entities/search?name={name}",
			},
			"test_scenarios": map[string]string{
				"health":        "/api/test/health",
				"block_thread":  "/api/test/block-thread?seconds={n}",
				"hang":          "/api/test/hang?seconds={n}",
				"cpu_intensive": "/api/test/cpu-intensive?seconds={n}",
				"thread_status": "/api/test/thread-status",
			},
			"actuator": map[string]string{
				"health":  "/actuator/health",
				"info":    "/actuator/info",
				"env":     "/actuator/env",
				"threads": "/actuator/threads",
				"restart": "/actuator/restart",
			},
		},
	})
}

// handleHealth handles GET /health, the flat liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    s.Uptime(),
	})
}

// handleStats handles GET /stats. Both lock probes are non-blocking.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	storeStats := s.store.Stats()
	simStats := s.controller.Stats()

	writeJSON(w, http.StatusOK, StatsResponse{
		ItemsCount:            storeStats.ItemsCount,
		BlockedWorkersCount:   simStats.BlockedWorkers,
		StoreLockAvailable:    storeStats.LockAvailable,
		BlockingLockAvailable: simStats.LockAvailable,
	})
}

// handleOpenAPI handles GET /openapi.json, serving the document built at
// construction time.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	if s.openapiJSON == nil {
		recordErrorKind(errKindInternal)
		writeError(w, http.StatusInternalServerError, "internal_error", ErrMsgInternal)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.openapiJSON)
}

// handleActuatorHealth handles GET /actuator/health in the Spring Boot
// actuator shape.
func (s *Server) handleActuatorHealth(w http.ResponseWriter, r *http.Request) {
	storeStats := s.store.Stats()
	simStats := s.controller.Stats()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	writeJSON(w, http.StatusOK, ActuatorHealth{
		Status:    "UP",
		Timestamp: time.Now().UTC(),
		Details: ActuatorHealthDetails{
			ItemsCount:            storeStats.ItemsCount,
			BlockedWorkersCount:   simStats.BlockedWorkers,
			StoreLockAvailable:    storeStats.LockAvailable,
			BlockingLockAvailable: simStats.LockAvailable,
		},
		SystemInfo: ActuatorSystemInfo{
			GoVersion:     runtime.Version(),
			Platform:      runtime.GOOS,
			NumCPU:        runtime.NumCPU(),
			MemoryUsageMB: roundMB(ms.Alloc),
		},
	})
}

// handleActuatorInfo handles GET /actuator/info.
func (s *Server) handleActuatorInfo(w http.ResponseWriter, r *http.Request) {
	storeStats := s.store.Stats()
	simStats := s.controller.Stats()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	writeJSON(w, http.StatusOK, ActuatorInfo{
		Application: ActuatorApplication{
			Name:          s.cfg.App.Name,
			Version:       s.cfg.App.Version,
			Description:   "HTTP test service for Kubernetes load and liveness testing",
			UptimeSeconds: s.Uptime(),
			StartupTime:   s.startTime.UTC(),
		},
		System: ActuatorSystem{
			GoVersion:    runtime.Version(),
			Platform:     runtime.GOOS,
			Architecture: runtime.GOARCH,
			NumCPU:       runtime.NumCPU(),
			Hostname:     hostname,
		},
		Runtime: ActuatorRuntime{
			ProcessID:      os.Getpid(),
			GoroutineCount: runtime.NumGoroutine(),
			MemoryUsageMB:  roundMB(ms.Alloc),
		},
		Storage: ActuatorStorage{
			ItemsCount:          storeStats.ItemsCount,
			BlockedWorkersCount: simStats.BlockedWorkers,
		},
	})
}

// sensitiveEnvMarkers flags environment keys whose values are masked in
// the actuator env view.
var sensitiveEnvMarkers = []string{"password", "secret", "key", "token", "auth"}

// maskSensitive replaces the value of any credential-looking environment
// variable.
func maskSensitive(key, value string) string {
	lower := strings.ToLower(key)
	for _, marker := range sensitiveEnvMarkers {
		if strings.Contains(lower, marker) {
			return "***HIDDEN***"
		}
	}
	return value
}

// handleActuatorEnv handles GET /actuator/env. Values of keys containing
// password, secret, key, token, or auth are masked.
func (s *Server) handleActuatorEnv(w http.ResponseWriter, r *http.Request) {
	envVars := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		envVars[k] = maskSensitive(k, v)
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = "unknown"
	}
	user := os.Getenv("USER")
	if user == "" {
		user = "unknown"
	}

	writeJSON(w, http.StatusOK, ActuatorEnv{
		EnvironmentVariables: envVars,
		WorkingDirectory:     wd,
		User:                 user,
		Config: map[string]any{
			"host":                   s.cfg.Server.Host,
			"port":                   s.cfg.Server.Port,
			"default_block_duration": s.cfg.Simulation.DefaultBlockDuration,
			"max_timeout_duration":   s.cfg.Simulation.MaxTimeoutDuration,
			"backend_base_url":       s.cfg.Backend.BaseURL,
			"log_level":              s.cfg.Logging.Level,
		},
	})
}

// handleActuatorThreads handles GET /actuator/threads, the goroutine
// analog of a thread dump.
func (s *Server) handleActuatorThreads(w http.ResponseWriter, r *http.Request) {
	status := s.controller.BlockStatus()

	workers := make([]WorkerInfo, 0, len(status.WorkerIDs))
	for _, workerID := range status.WorkerIDs {
		workers = append(workers, WorkerInfo{ID: workerID, State: "blocked"})
	}

	resp := ActuatorThreads{
		TotalGoroutines:     runtime.NumGoroutine(),
		BlockedWorkersCount: status.BlockedWorkers,
		BlockedWorkerIDs:    status.WorkerIDs,
		Workers:             workers,
	}
	if n, ok := metrics.NumOSThreads(); ok {
		resp.OSThreads = n
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleActuatorRestart handles POST /actuator/restart. The response is
// written first; the process exits after a short grace period so a
// supervisor (Kubernetes) restarts it.
func (s *Server) handleActuatorRestart(w http.ResponseWriter, r *http.Request) {
	s.log.Warn("restart requested via actuator endpoint")

	writeJSON(w, http.StatusOK, RestartResponse{
		Message:   "Application restart initiated",
		Timestamp: time.Now().UTC(),
		Note:      "The application will restart in 2 seconds",
	})

	go func() {
		time.Sleep(restartGracePeriod)
		s.restartFn()
	}()
}

// roundMB converts bytes to megabytes rounded to two decimals.
func roundMB(bytes uint64) float64 {
	mb := float64(bytes) / (1024 * 1024)
	return math.Round(mb*100) / 100
}
