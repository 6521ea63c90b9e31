// Package validation provides field-level request validation for testapp.
//
// Handlers and domain types validate inbound payloads into a Result that
// accumulates per-field errors with machine-readable codes, so a single
// response can report every violation at once:
//
//	result := validation.NewResult()
//	if name == "" {
//	    result.AddError(validation.NewRequiredError("name", validation.LocationBody))
//	}
//	if err := result.Err(); err != nil {
//	    return err // surfaces as a 400 with field detail
//	}
//
// Result.Err wraps failures in *validation.Error, which handlers unwrap
// with errors.As to distinguish malformed input from not-found conditions.
package validation
