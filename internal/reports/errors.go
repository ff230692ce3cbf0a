package reports

import (
	"errors"
	"net/http"
)

// Code is a stable error category returned to clients in the error
// envelope and mapped to an HTTP status code.
type Code string

const (
	CodeMissingParameters Code = "MISSING_PARAMETERS"
	CodeDatabaseError     Code = "DATABASE_ERROR"
	CodeNoData            Code = "NO_DATA"
	CodeUploadError       Code = "UPLOAD_ERROR"
	CodeSignedURLError    Code = "SIGNED_URL_ERROR"
	CodeInternalError     Code = "INTERNAL_ERROR"
)

// Error is a typed pipeline error. Message and Details are safe to
// return to clients; Err carries the wrapped cause for logs.
type Error struct {
	Code    Code
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HTTPStatus maps the error code to its response status
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeMissingParameters:
		return http.StatusBadRequest
	case CodeNoData:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) WithDetails(details string) *Error {
	e.Details = details
	return e
}

func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// AsError returns err as a typed *Error, wrapping uncategorized
// failures as INTERNAL_ERROR so nothing leaks untranslated.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Code: CodeInternalError, Message: "Failed to generate report", Details: err.Error(), Err: err}
}

// IsCode reports whether err is a typed error with the given code
func IsCode(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
