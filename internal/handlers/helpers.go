package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/lucrum/internal/common"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteDomainError maps a service error to its HTTP status and writes it.
func WriteDomainError(w http.ResponseWriter, err error) error {
	return WriteError(w, StatusForError(err), err.Error())
}

// StatusForError maps the error taxonomy onto HTTP status codes.
// Configuration problems are the caller's to fix (400); upstream source and
// provider failures are gateway errors (502/504); unknown ids are 404;
// anything else is a 500.
func StatusForError(err error) int {
	var (
		reqErr     *badRequestError
		cfgErr     *common.ConfigurationError
		srcErr     *common.SourceUnavailableError
		timeoutErr *common.ProviderTimeoutError
		invalidErr *common.ProviderInvalidOutputError
		notFound   *common.NotFoundError
	)
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest
	case errors.As(err, &srcErr):
		return http.StatusBadGateway
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &invalidErr):
		return http.StatusBadGateway
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
