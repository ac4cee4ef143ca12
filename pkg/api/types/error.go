package types

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error. It is one of the rule error kinds
	// ("parse_error", "not_found", ...) or one of the constants below.
	Type string `json:"type"`
}

// Error types that do not come from the rule engine itself.
const (
	// ErrorTypeInvalidRequest indicates a malformed request body (400).
	ErrorTypeInvalidRequest = "invalid_request_error"

	// ErrorTypeNotFound indicates an unknown route or rule (404).
	ErrorTypeNotFound = "not_found"

	// ErrorTypeRequestTooLarge indicates a body over the configured limit (413).
	ErrorTypeRequestTooLarge = "request_too_large"

	// ErrorTypeServerError indicates an internal server error (500).
	ErrorTypeServerError = "server_error"
)

// NewError builds an ErrorResponse.
func NewError(message, errorType string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Message: message, Type: errorType}}
}

// NewServerError returns the generic 500 body. Internal details are logged,
// never returned.
func NewServerError(message string) *ErrorResponse {
	return NewError(message, ErrorTypeServerError)
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorResponse with the given status.
func WriteError(w http.ResponseWriter, status int, message, errorType string) {
	WriteJSON(w, status, NewError(message, errorType))
}
