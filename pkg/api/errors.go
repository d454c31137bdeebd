package api

import (
	"fmt"
	"net/http"
)

// Error is the standard error shape surfaced by the API.
type Error struct {
	// HTTP status code (400, 404, 500).
	Code int
	// Safe message for the client.
	Message string
	// Per-field validation detail, when applicable.
	Fields map[string]string
	// Original error for internal logging. Never serialized.
	Log error
}

// Error implements the standard error interface.
func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Log
}

// ValidationError reports one or more request fields that failed validation.
func ValidationError(fields map[string]string) *Error {
	msg := "One or more fields failed validation"
	if len(fields) == 1 {
		for field := range fields {
			msg = fmt.Sprintf("Missing or invalid parameter: %s", field)
		}
	}
	return &Error{
		Code:    http.StatusBadRequest,
		Message: msg,
		Fields:  fields,
	}
}

// BadRequestError creates a 400 with a literal message.
func BadRequestError(msg string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: msg}
}

// NotFoundError creates a standard 404 error.
func NotFoundError(msg string) *Error {
	return &Error{Code: http.StatusNotFound, Message: msg}
}

// UpstreamError reports a provider failure during job submission or a
// synchronous run. The upstream cause becomes part of the client message,
// matching the path-prefixed wrapping the endpoints promise.
func UpstreamError(prefix string, err error) *Error {
	return &Error{
		Code:    http.StatusInternalServerError,
		Message: fmt.Sprintf("%s: %v", prefix, err),
		Log:     err,
	}
}

// StatusCheckError reports a provider failure while polling a job. The cause
// is kept server-side only.
func StatusCheckError(err error) *Error {
	return &Error{
		Code:    http.StatusInternalServerError,
		Message: "Failed to check job status",
		Log:     err,
	}
}
