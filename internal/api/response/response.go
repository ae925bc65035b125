// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses and standardized error responses.
package response

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/apperrors"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
// Kind carries the error taxonomy name, such as "InvalidTicker" or "NetworkError".
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Sets the Content-Type header to application/json and writes the status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Logs encoding errors through the global zap logger but does not fail the response.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zap.L().Warn("failed to encode JSON response", zap.Error(err))
		}
	}
}

// RespondError sends a structured error response with the given status code.
// The message should be a user-friendly error description.
// The details parameter can be an error string, additional context, or nil.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
//	response.RespondError(w, http.StatusNotFound, "resource not found", "")
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	response := ErrorResponse{
		Error:   message,
		Details: details,
	}
	RespondJSON(w, status, response)
}

// RespondServiceError maps err onto an HTTP status by its taxonomy kind and
// sends it as an ErrorResponse with the given message.
//
//   - 400: invalid input (ticker, share count, strategy, days)
//   - 404: unknown symbol or journal entry
//   - 422: selected ticker without a catalog price
//   - 502: market-data or backend failure, including unavailable prices
//   - 500: anything else
func RespondServiceError(w http.ResponseWriter, message string, err error) {
	kind := apperrors.Kind(err)
	RespondJSON(w, StatusForKind(kind), ErrorResponse{
		Error:   message,
		Kind:    kind,
		Details: err.Error(),
	})
}

// StatusForKind returns the HTTP status for an apperrors.Kind value.
func StatusForKind(kind string) int {
	switch kind {
	case "InvalidTicker", "InvalidShareCount", "InvalidStrategy", "InvalidDays":
		return http.StatusBadRequest
	case "NotFound":
		return http.StatusNotFound
	case "UnknownTicker":
		return http.StatusUnprocessableEntity
	case "NetworkError", "RemoteRejected", "PriceUnavailable":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
