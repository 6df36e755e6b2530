// Package domainerrors defines coded errors for the application domain.
// Services return these so transport can translate outcomes into HTTP
// behavior without inspecting error strings. Infrastructure facts (missing
// rows, conflicts) live in pkg/sentinel; this package is for decisions the
// domain has already made about an attempt.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeBadRequest     Code = "bad_request"
	CodeBadCredential  Code = "bad_credential"
	CodeNoSuchIdentity Code = "no_such_identity"
	CodeMalformedHash  Code = "malformed_hash"
	CodeProviderError  Code = "provider_error"
	CodeUnauthorized   Code = "unauthorized"
	CodeConflict       Code = "conflict"
	CodeUnavailable    Code = "store_unavailable"
	CodeInternal       Code = "internal"
)

// Error is a coded domain error. Message is safe to log but is never written
// verbatim to clients; transport maps Code to behavior.
type Error struct {
	Code    Code
	Message string
	wrapped error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.wrapped }

// New builds a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds a coded error that preserves the underlying cause for logs and
// errors.Is checks.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, wrapped: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code from an error chain; CodeInternal for uncoded
// errors, empty for nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the response status used when an error must be
// rendered rather than redirected.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeMalformedHash:
		return http.StatusBadRequest
	case CodeBadCredential, CodeNoSuchIdentity, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable, CodeProviderError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
