package validation

import (
	"fmt"
)

// ErrorCode constants for machine-readable error identification.
const (
	ErrCodeRequired     = "required"
	ErrCodeType         = "type"
	ErrCodeMinLength    = "min_length"
	ErrCodeMaxLength    = "max_length"
	ErrCodeMin          = "min"
	ErrCodeMax          = "max"
	ErrCodeExclusiveMin = "exclusive_min"
	ErrCodeMinItems     = "min_items"
	ErrCodeMaxItems     = "max_items"
	ErrCodeInvalidJSON  = "invalid_json"
)

// ErrorLocation constants.
const (
	LocationBody  = "body"
	LocationPath  = "path"
	LocationQuery = "query"
)

// FieldError represents a detailed validation error for a single field.
type FieldError struct {
	// Field is the name of the field that failed validation
	Field string `json:"field"`

	// Location indicates where the field is: body, path, query
	Location string `json:"location"`

	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Received is the actual value that was received (may be omitted for security)
	Received interface{} `json:"received,omitempty"`

	// Expected describes what was expected
	Expected string `json:"expected,omitempty"`
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s.%s: %s", e.Location, e.Field, e.Message)
	}
	return e.Message
}

// Result contains the outcome of validation.
type Result struct {
	// Valid is true if validation passed
	Valid bool `json:"valid"`

	// Errors contains validation errors (when Valid is false)
	Errors []*FieldError `json:"errors,omitempty"`
}

// NewResult returns a passing result to accumulate errors into.
func NewResult() *Result {
	return &Result{Valid: true}
}

// AddError adds a validation error to the result.
func (r *Result) AddError(err *FieldError) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Merge combines another result into this one.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	if !other.Valid {
		r.Valid = false
	}
	r.Errors = append(r.Errors, other.Errors...)
}

// Err returns the result as an error, or nil when validation passed.
// The returned error is always a *validation.Error so callers can recover
// the field detail with errors.As.
func (r *Result) Err() error {
	if r == nil || !r.HasErrors() {
		return nil
	}
	return &Error{Result: r}
}

// Error wraps a failed Result so validation failures can travel through
// ordinary error returns. Handlers unwrap it with errors.As to surface the
// per-field detail as a client error distinct from not-found.
type Error struct {
	Result *Result
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Result == nil || len(e.Result.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Result.Errors) == 1 {
		return e.Result.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors, first: %s",
		len(e.Result.Errors), e.Result.Errors[0].Error())
}

// Helper constructors for the errors this API actually raises.

// NewRequiredError creates an error for a missing required field.
func NewRequiredError(field, location string) *FieldError {
	return &FieldError{
		Field:    field,
		Location: location,
		Code:     ErrCodeRequired,
		Message:  fmt.Sprintf("field '%s' is required", field),
		Expected: "non-empty value",
	}
}

// NewTypeError creates an error for a value of the wrong type.
func NewTypeError(field, location, expected string, received interface{}) *FieldError {
	return &FieldError{
		Field:    field,
		Location: location,
		Code:     ErrCodeType,
		Message:  fmt.Sprintf("expected type '%s'", expected),
		Received: received,
		Expected: expected,
	}
}

// NewMinLengthError creates an error for a string that is too short.
func NewMinLengthError(field, location string, minLength, actual int) *FieldError {
	return &FieldError{
		Field:    field,
		Location: location,
		Code:     ErrCodeMinLength,
		Message:  fmt.Sprintf("must be at least %d characters", minLength),
		Received: actual,
		Expected: fmt.Sprintf(">= %d characters", minLength),
	}
}

// NewMaxLengthError creates an error for a string that is too long.
func NewMaxLengthError(field, location string, maxLength, actual int) *FieldError {
	return &FieldError{
		Field:    field,
		Location: location,
		Code:     ErrCodeMaxLength,
		Message:  fmt.Sprintf("must be at most %d characters", maxLength),
		Received: actual,
		Expected: fmt.Sprintf("<= %d characters", maxLength),
	}
}

// NewMinError creates an error for a number below an inclusive minimum.
func NewMinError(field, location string, min float64, received interface{}) *FieldError {
	return &FieldError{
		Field:    field,
		Location: location,
		Code:     ErrCodeMin,
		Message:  fmt.Sprintf("must be >= %v", min),
		Received: received,
		Expected: fmt.Sprintf(">= %v", min),
	}
}

// NewMaxError creates an error for a number above an inclusive maximum.
func NewMaxError(field, location string, max float64, received interface{}) *FieldError {
	return &FieldError{
		Field:    field,
		Location: location,
		Code:     ErrCodeMax,
		Message:  fmt.Sprintf("must be <= %v", max),
		Received: received,
		Expected: fmt.Sprintf("<= %v", max),
	}
}

// NewExclusiveMinError creates an error for a number at or below an
// exclusive lower bound.
func NewExclusiveMinError(field, location string, min float64, received interface{}) *FieldError {
	return &FieldError{
		Field:    field,
		Location: location,
		Code:     ErrCodeExclusiveMin,
		Message:  fmt.Sprintf("must be > %v", min),
		Received: received,
		Expected: fmt.Sprintf("> %v", min),
	}
}

// NewMinItemsError creates an error for an array with too few items.
func NewMinItemsError(field, location string, minItems, actual int) *FieldError {
	return &FieldError{
		Field:    field,
		Location: location,
		Code:     ErrCodeMinItems,
		Message:  fmt.Sprintf("must have at least %d items", minItems),
		Received: actual,
		Expected: fmt.Sprintf(">= %d items", minItems),
	}
}

// NewMaxItemsError creates an error for an array with too many items.
func NewMaxItemsError(field, location string, maxItems, actual int) *FieldError {
	return &FieldError{
		Field:    field,
		Location: location,
		Code:     ErrCodeMaxItems,
		Message:  fmt.Sprintf("must have at most %d items", maxItems),
		Received: actual,
		Expected: fmt.Sprintf("<= %d items", maxItems),
	}
}

// NewInvalidJSONError creates an error for a malformed request body.
func NewInvalidJSONError(message string) *FieldError {
	return &FieldError{
		Field:    "",
		Location: LocationBody,
		Code:     ErrCodeInvalidJSON,
		Message:  fmt.Sprintf("invalid JSON: %s", message),
	}
}
