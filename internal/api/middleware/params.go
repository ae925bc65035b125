// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/api/response"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/validation"
)

// ValidateCommitID validates that the commitId URL parameter is present and is a valid UUID.
// Returns 400 Bad Request if it is missing or malformed.
//
// Example usage in router:
//
//	r.With(middleware.ValidateCommitID).Get("/commits/{commitId}", handler.Commit)
func ValidateCommitID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "commitId")

		if id == "" {
			response.RespondError(w, http.StatusBadRequest, "commit ID is required", "")
			return
		}

		if err := validation.ValidateCommitID(id); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid commit ID format", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ValidateSymbol rejects a {ticker} URL parameter that is empty or contains
// whitespace. The strict 1-5 letter rule is applied only by search, so
// recommended symbols such as BRK-B pass.
func ValidateSymbol(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := validation.ValidateSymbol(chi.URLParam(r, "ticker")); err != nil {
			response.RespondServiceError(w, "invalid ticker", err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
