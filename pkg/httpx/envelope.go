package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// Status is the tag carried by every response envelope. Each tag maps to
// exactly one HTTP status code via HTTPStatus; handlers never pick codes
// themselves.
type Status string

const (
	StatusSuccess Status = "success"
	StatusCreated Status = "created"
	StatusUpdated Status = "updated"
	StatusDeleted Status = "deleted"

	StatusUnauthorized    Status = "unauthorized"
	StatusForbidden       Status = "forbidden"
	StatusNotFound        Status = "not_found"
	StatusValidationError Status = "validation_error"
	StatusRateLimited     Status = "rate_limited"
	StatusError           Status = "error"
)

// HTTPStatus is the single exhaustive mapping from envelope status tag to
// HTTP status code.
func HTTPStatus(s Status) int {
	switch s {
	case StatusSuccess, StatusUpdated, StatusDeleted:
		return http.StatusOK
	case StatusCreated:
		return http.StatusCreated
	case StatusUnauthorized:
		return http.StatusUnauthorized
	case StatusForbidden:
		return http.StatusForbidden
	case StatusNotFound:
		return http.StatusNotFound
	case StatusValidationError:
		return http.StatusUnprocessableEntity
	case StatusRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}

// Envelope is the uniform JSON wrapper returned by every endpoint, success or
// failure. Timestamp marshals as ISO-8601 (RFC 3339).
type Envelope struct {
	Status     Status            `json:"status"`
	Message    string            `json:"message"`
	Timestamp  time.Time         `json:"timestamp"`
	Data       any               `json:"data,omitempty"`
	Meta       map[string]any    `json:"meta,omitempty"`
	Pagination *PageMeta         `json:"pagination,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// WriteJSON writes a JSON response with the given status code. It sets
// Content-Type and no-store cache headers; token responses must never be
// cached.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

func envelope(s Status, message string) Envelope {
	return Envelope{Status: s, Message: message, Timestamp: time.Now().UTC()}
}

// Write emits a bare envelope for the given status tag.
func Write(w http.ResponseWriter, s Status, message string) {
	WriteJSON(w, HTTPStatus(s), envelope(s, message))
}

// WriteData emits an envelope carrying a data payload.
func WriteData(w http.ResponseWriter, s Status, message string, data any) {
	env := envelope(s, message)
	env.Data = data
	WriteJSON(w, HTTPStatus(s), env)
}

// WritePage emits a success envelope carrying a page of data plus pagination
// metadata.
func WritePage(w http.ResponseWriter, message string, data any, page PageMeta) {
	env := envelope(StatusSuccess, message)
	env.Data = data
	env.Pagination = &page
	WriteJSON(w, HTTPStatus(StatusSuccess), env)
}

// WriteValidation emits a 422 envelope with per-field error messages.
func WriteValidation(w http.ResponseWriter, message string, fields map[string]string) {
	env := envelope(StatusValidationError, message)
	env.Errors = fields
	WriteJSON(w, HTTPStatus(StatusValidationError), env)
}

// WriteRateLimited emits a 429 envelope with a Retry-After hint in seconds.
func WriteRateLimited(w http.ResponseWriter, message string, retryAfter int) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	Write(w, StatusRateLimited, message)
}

// WriteServerError emits a 500 with the generic error tag. The message must
// already be safe for clients; internals belong in the log, not here.
func WriteServerError(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusInternalServerError, envelope(StatusError, message))
}
