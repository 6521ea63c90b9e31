package api

import (
	"encoding/json"
	"io"
	"net/http"
)

// decodeOptionalJSONBody decodes a JSON request body into dst, treating a
// missing or empty body as valid (dst is left unchanged). Item updates use
// it so an empty PUT body degrades to a timestamp-refreshing no-op update
// instead of an error.
func decodeOptionalJSONBody(r *http.Request, dst any) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == io.EOF {
		return nil
	}
	return err
}
