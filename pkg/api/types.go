package api

import (
	"time"

	"github.com/k8s-lovers-korea/test-go-app/pkg/item"
)

// ErrorResponse is the JSON error envelope returned by every handler.
type ErrorResponse struct {
	// Error is a machine-readable error code.
	Error string `json:"error"`

	// Message is a human-readable, safe description.
	Message string `json:"message"`

	// Details carries optional structured detail, such as per-field
	// validation errors.
	Details any `json:"details,omitempty"`
}

// HealthResponse is returned by the flat liveness endpoint.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    int       `json:"uptime_seconds"`
}

// DeleteItemResponse confirms a single-item delete and returns the removed
// item.
type DeleteItemResponse struct {
	Message string     `json:"message"`
	Item    *item.Item `json:"item"`
}

// BulkCreateRequest is the payload for creating a batch of items.
type BulkCreateRequest struct {
	Items []*item.CreateRequest `json:"items"`
}

// BulkUpdateRequest is the payload for updating a batch of items.
type BulkUpdateRequest struct {
	Updates []*item.UpdateWithID `json:"updates"`
}

// BulkUpdateResponse partitions a bulk update into updated items and the
// IDs that were not found.
type BulkUpdateResponse struct {
	Updated       []*item.Item `json:"updated"`
	UpdatedCount  int          `json:"updated_count"`
	NotFoundIDs   []string     `json:"not_found_ids"`
	NotFoundCount int          `json:"not_found_count"`
}

// BulkDeleteResponse reports the outcome of a bulk delete.
type BulkDeleteResponse struct {
	Message       string                `json:"message"`
	DeletedCount  int                   `json:"deleted_count"`
	NotFoundCount int                   `json:"not_found_count"`
	DeletedItems  map[string]*item.Item `json:"deleted_items"`
	NotFoundIDs   []string              `json:"not_found_ids"`
}

// BlockResponse acknowledges a triggered blocking simulation. The worker
// keeps running after this response is sent.
type BlockResponse struct {
	Message             string `json:"message"`
	DurationSeconds     int    `json:"duration_seconds"`
	WorkerID            string `json:"worker_id"`
	BlockedWorkersCount int    `json:"blocked_workers_count"`
}

// BlockStatusResponse is a point-in-time view of the blocking simulation.
type BlockStatusResponse struct {
	BlockedWorkersCount int      `json:"blocked_workers_count"`
	BlockedWorkerIDs    []string `json:"blocked_worker_ids"`
	LockAvailable       bool     `json:"lock_available"`
}

// TimeoutResponse reports a completed timeout simulation.
type TimeoutResponse struct {
	Message           string  `json:"message"`
	RequestedDuration int     `json:"requested_duration"`
	ActualDuration    float64 `json:"actual_duration"`
	CompletedAt       int64   `json:"completed_at"`
}

// StatsResponse reports store and simulation introspection.
type StatsResponse struct {
	ItemsCount            int  `json:"items_count"`
	BlockedWorkersCount   int  `json:"blocked_workers_count"`
	StoreLockAvailable    bool `json:"store_lock_available"`
	BlockingLockAvailable bool `json:"blocking_lock_available"`
}

// RootResponse describes the application and its endpoint map.
type RootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Features  map[string]string `json:"features"`
	Endpoints map[string]any    `json:"endpoints"`
}

// ActuatorHealth is the Spring Boot style health view.
type ActuatorHealth struct {
	Status     string                `json:"status"`
	Timestamp  time.Time             `json:"timestamp"`
	Details    ActuatorHealthDetails `json:"details"`
	SystemInfo ActuatorSystemInfo    `json:"system_info"`
}

// ActuatorHealthDetails carries the store and simulation state inside the
// actuator health view.
type ActuatorHealthDetails struct {
	ItemsCount            int  `json:"items_count"`
	BlockedWorkersCount   int  `json:"blocked_workers_count"`
	StoreLockAvailable    bool `json:"store_lock_available"`
	BlockingLockAvailable bool `json:"blocking_lock_available"`
}

// ActuatorSystemInfo carries runtime facts inside the actuator health view.
type ActuatorSystemInfo struct {
	GoVersion     string  `json:"go_version"`
	Platform      string  `json:"platform"`
	NumCPU        int     `json:"num_cpu"`
	MemoryUsageMB float64 `json:"memory_usage_mb"`
}

// ActuatorInfo is the Spring Boot style application info view.
type ActuatorInfo struct {
	Application ActuatorApplication `json:"application"`
	System      ActuatorSystem      `json:"system"`
	Runtime     ActuatorRuntime     `json:"runtime"`
	Storage     ActuatorStorage     `json:"storage"`
}

// ActuatorApplication identifies the running application.
type ActuatorApplication struct {
	Name          string    `json:"name"`
	Version       string    `json:"version"`
	Description   string    `json:"description"`
	UptimeSeconds int       `json:"uptime_seconds"`
	StartupTime   time.Time `json:"startup_time"`
}

// ActuatorSystem describes the host the application runs on.
type ActuatorSystem struct {
	GoVersion    string `json:"go_version"`
	Platform     string `json:"platform"`
	Architecture string `json:"architecture"`
	NumCPU       int    `json:"num_cpu"`
	Hostname     string `json:"hostname"`
}

// ActuatorRuntime describes the running process.
type ActuatorRuntime struct {
	ProcessID      int     `json:"process_id"`
	GoroutineCount int     `json:"goroutine_count"`
	MemoryUsageMB  float64 `json:"memory_usage_mb"`
}

// ActuatorStorage summarizes the in-memory state.
type ActuatorStorage struct {
	ItemsCount          int `json:"items_count"`
	BlockedWorkersCount int `json:"blocked_workers_count"`
}

// ActuatorEnv exposes the process environment with sensitive values masked.
type ActuatorEnv struct {
	EnvironmentVariables map[string]string `json:"environment_variables"`
	WorkingDirectory     string            `json:"working_directory"`
	User                 string            `json:"user"`
	Config               map[string]any    `json:"config"`
}

// ActuatorThreads is the goroutine analog of a thread dump.
type ActuatorThreads struct {
	TotalGoroutines     int          `json:"total_goroutines"`
	OSThreads           int          `json:"os_threads,omitempty"`
	BlockedWorkersCount int          `json:"blocked_workers_count"`
	BlockedWorkerIDs    []string     `json:"blocked_worker_ids"`
	Workers             []WorkerInfo `json:"workers"`
}

// WorkerInfo describes one blocking-simulation worker.
type WorkerInfo struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

// RestartResponse acknowledges a restart request before the process exits.
type RestartResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note"`
}
