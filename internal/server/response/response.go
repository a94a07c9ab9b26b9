// Package response writes the review server's JSON responses. Successful
// bodies are the bare payload; failures are {"error": message}.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/mapreview/pkg/errors"
)

// Error is the body of every failed request.
type Error struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Saved is the body of a successful save.
type Saved struct {
	Success bool `json:"success"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// headers are already sent
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with 200 status.
func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// Fail writes an error body.
func Fail(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, Error{Error: message, Code: code})
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message string) {
	Fail(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message string) {
	Fail(w, http.StatusNotFound, "NOT_FOUND", message)
}

// InternalError writes a 500 error response without exposing err.
func InternalError(w http.ResponseWriter, _ error) {
	Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// ErrorFromType maps typed errors to HTTP responses. Validation and missing
// queue records are both client errors on the save endpoint, so callers that
// need a different mapping check the type first.
func ErrorFromType(w http.ResponseWriter, err error) {
	var (
		notFound   *errors.NotFoundError
		validation *errors.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		NotFound(w, notFound.Error())
	case errors.As(err, &validation):
		BadRequest(w, validation.Message)
	default:
		InternalError(w, err)
	}
}
