// Package httpx provides HTTP response utilities for the API envelope.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/sekolahku/sekolahku/internal/shared"
)

// Envelope is the uniform API response shape.
type Envelope struct {
	Success    bool               `json:"success"`
	Data       any                `json:"data,omitempty"`
	Error      string             `json:"error,omitempty"`
	Fields     map[string]string  `json:"fields,omitempty"`
	Pagination *shared.Pagination `json:"pagination,omitempty"`
}

// JSON sends a success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

// JSONPage sends a success envelope carrying pagination metadata.
func JSONPage(w http.ResponseWriter, status int, data any, page shared.Pagination) {
	write(w, status, Envelope{Success: true, Data: data, Pagination: &page})
}

// Error sends a failure envelope with the given status code and message.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Error: message})
}

// FieldErrors sends a validation failure with the full per-field error map,
// not just the first failure, so a client can render all form errors at
// once.
func FieldErrors(w http.ResponseWriter, fields map[string]string) {
	write(w, http.StatusBadRequest, Envelope{
		Success: false,
		Error:   "Validation failed",
		Fields:  fields,
	})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
