package id

import (
	"github.com/google/uuid"
)

// New generates a UUID v4 (random) string.
// Format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
func New() string {
	return uuid.New().String()
}

// Short generates a short random hex ID (8 characters).
// Suitable for user-facing IDs where brevity matters. Collision resistance
// is far weaker than New; use only where the ID space is small and
// short-lived.
func Short() string {
	u := uuid.New()
	return u.String()[:8]
}

// Worker generates an identifier for a blocking-simulation worker.
// Workers are short-lived and few, so a short ID keeps status output and
// log lines readable.
func Worker() string {
	return "block-" + Short()
}
