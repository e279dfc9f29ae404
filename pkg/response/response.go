// Package response writes the JSON bodies the API exposes. Error responses
// always carry {"detail": "..."}; validation failures additionally carry an
// "errors" array of messages.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/idlikadai/backend/pkg/apperr"
	"github.com/idlikadai/backend/pkg/logger"
)

type errorBody struct {
	Detail string   `json:"detail"`
	Errors []string `json:"errors,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Detail writes a plain {"detail": msg} error body.
func Detail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Detail: msg})
}

// ValidationFailed writes a 400 with every collected message.
func ValidationFailed(w http.ResponseWriter, messages []string) {
	JSON(w, http.StatusBadRequest, errorBody{Detail: "Validation failed", Errors: messages})
}

// Fail maps any error onto the taxonomy. Unexpected errors become a 500 with
// the cause logged server-side and a generic detail sent to the client.
func Fail(w http.ResponseWriter, err error) {
	var e *apperr.Error
	if errors.As(err, &e) {
		if e.Kind == apperr.Internal {
			logger.Error("internal error", "detail", e.Detail, "error", e.Err)
		}
		JSON(w, apperr.Status(e.Kind), errorBody{Detail: e.Detail, Errors: e.Errors})
		return
	}
	logger.Error("unexpected error", "error", err)
	Detail(w, http.StatusInternalServerError, "Internal server error")
}

// Unauthorized writes a 401.
func Unauthorized(w http.ResponseWriter, msg string) {
	Detail(w, http.StatusUnauthorized, msg)
}

// Forbidden writes a 403.
func Forbidden(w http.ResponseWriter, msg string) {
	Detail(w, http.StatusForbidden, msg)
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter, msg string) {
	Detail(w, http.StatusNotFound, msg)
}
