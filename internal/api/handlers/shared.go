package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/api/response"
)

// maxBodyBytes bounds request bodies; every body here is a few fields.
const maxBodyBytes = 1 << 16

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data any) {
	response.RespondJSON(w, status, data)
}

// decodeJSON decodes the request body into dst. An empty body leaves dst
// untouched. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
