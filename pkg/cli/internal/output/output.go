// Package output provides common output formatting utilities.
package output

import (
	"encoding/json"
	"os"
)

// JSON writes indented JSON to stdout.
func JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
