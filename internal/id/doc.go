// Package id provides unique identifier generation utilities.
//
// This is the canonical source for ID generation across the testapp
// codebase:
//
//   - New: UUID v4 strings for item identifiers and request trace IDs
//   - Short: 8-character hex IDs for contexts where brevity matters
//   - Worker: "block-" prefixed short IDs naming simulation workers
//
// All generation is backed by github.com/google/uuid, which draws from
// crypto/rand.
package id
