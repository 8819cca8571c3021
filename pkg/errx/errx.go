// Package errx provides typed, HTTP-aware errors shared by every bounded context.
//
// Each context declares a Registry with a prefix and registers its codes once at
// package init; handlers return the resulting *Error and the server's global error
// handler renders it with the registered HTTP status.
package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies an error independently of its code
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeBusiness      Type = "BUSINESS"
	TypeInternal      Type = "INTERNAL"
	TypeExternal      Type = "EXTERNAL"
)

// DefaultHTTPStatus is used when an error is built without an explicit status
func (t Type) DefaultHTTPStatus() int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is the concrete error value returned across service boundaries
type Error struct {
	Code       string         `json:"code"`
	Type       Type           `json:"type"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

// New builds an unregistered error
func New(code string, typ Type, message string) *Error {
	return &Error{
		Code:       code,
		Type:       typ,
		Message:    message,
		HTTPStatus: typ.DefaultHTTPStatus(),
	}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a key/value pair rendered in the HTTP response
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause records the underlying error; it is never rendered to clients
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithMessage replaces the human-readable message
func (e *Error) WithMessage(message string) *Error {
	e.Message = message
	return e
}

// HTTPResponse is the JSON body written for an *Error
type HTTPResponse struct {
	Error   string         `json:"error"`
	Type    Type           `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ToHTTPResponse renders the client-facing body. Internal errors hide their details.
func (e *Error) ToHTTPResponse() HTTPResponse {
	resp := HTTPResponse{
		Error:   http.StatusText(e.HTTPStatus),
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
	if e.Type == TypeInternal {
		resp.Details = nil
	}
	return resp
}

// Wrap turns an arbitrary error into an *Error of the given type. An error that is
// already an *Error is returned untouched so domain codes survive service layers.
func Wrap(err error, message string, typ Type) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}
	code := string(typ) + "_ERROR"
	return New(code, typ, message).WithCause(err)
}

// As extracts an *Error from the chain
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code
func IsCode(err error, code string) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

// IsType reports whether err is an *Error of the given type
func IsType(err error, typ Type) bool {
	e, ok := As(err)
	return ok && e.Type == typ
}
