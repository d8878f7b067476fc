// Package httputil holds response and request helpers shared by handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Result is the body of the task endpoints, which report success
// explicitly.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	TaskID  string `json:"task_id,omitempty"`
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// Fail writes {"success": false, "error": message}.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Result{Success: false, Error: message})
}

// DecodeJSON decodes the request body into v. A body over the size limit
// is reported as ErrBodyTooLarge.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return err
	}
	return nil
}

// ErrBodyTooLarge is returned by DecodeJSON when the body exceeds the limit
// set by the request size middleware.
var ErrBodyTooLarge = errors.New("request body too large")
