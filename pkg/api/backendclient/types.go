package backendclient

import (
	"errors"
	"fmt"
	"time"

	"github.com/k8s-lovers-korea/test-go-app/pkg/validation"
)

// Sentinel errors returned by the client. Callers use errors.Is to map
// them onto gateway status codes.
var (
	// ErrNotFound is returned when the backend responds with 404.
	ErrNotFound = errors.New("resource not found")

	// ErrTimeout is returned when a request exceeds its deadline.
	ErrTimeout = errors.New("backend request timed out")

	// ErrUnavailable is returned when the backend cannot be reached.
	ErrUnavailable = errors.New("backend unavailable")
)

// Test-scenario defaults and bounds. Scenario endpoints accept a
// "seconds" query parameter clamped to [MinScenarioSeconds, MaxScenarioSeconds].
const (
	DefaultBlockSeconds = 30
	DefaultHangSeconds  = 90
	DefaultCPUSeconds   = 10

	MinScenarioSeconds = 1
	MaxScenarioSeconds = 300
)

// StatusError is returned when the backend answers with a non-404 error
// status. The response body is preserved so the gateway can relay the
// upstream failure text.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// Entity is a record managed by the backend service.
type Entity struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// EntityCreate is the payload for creating an entity.
type EntityCreate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Validate checks the create payload against the backend's field rules.
func (c *EntityCreate) Validate() error {
	res := validation.NewResult()
	if c.Name == "" {
		res.AddError(validation.NewRequiredError("name", validation.LocationBody))
	} else if len(c.Name) > 100 {
		res.AddError(validation.NewMaxLengthError("name", validation.LocationBody, 100, len(c.Name)))
	}
	if len(c.Description) > 500 {
		res.AddError(validation.NewMaxLengthError("description", validation.LocationBody, 500, len(c.Description)))
	}
	return res.Err()
}

// EntityUpdate is the payload for partially updating an entity.
// Nil fields are left unchanged.
type EntityUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Validate checks the update payload against the backend's field rules.
func (u *EntityUpdate) Validate() error {
	res := validation.NewResult()
	if u.Name != nil {
		if *u.Name == "" {
			res.AddError(validation.NewMinLengthError("name", validation.LocationBody, 1, 0))
		} else if len(*u.Name) > 100 {
			res.AddError(validation.NewMaxLengthError("name", validation.LocationBody, 100, len(*u.Name)))
		}
	}
	if u.Description != nil && len(*u.Description) > 500 {
		res.AddError(validation.NewMaxLengthError("description", validation.LocationBody, 500, len(*u.Description)))
	}
	return res.Err()
}

// DeleteEntityResponse is returned by the backend after deleting an entity.
type DeleteEntityResponse struct {
	Message string `json:"message"`
}

// errorResponse mirrors the backend's error envelope.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
