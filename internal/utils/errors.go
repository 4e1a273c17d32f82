package utils

import (
	"errors"
	"net/http"
)

// AppError is an error that carries the HTTP status it should be reported with.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Details    any
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails attaches a payload that is returned to the client alongside the message.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

func NewBadRequestError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: "bad_request", Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Code: "not_found", Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Code: "conflict", Message: message}
}

func NewUnprocessableError(message string) *AppError {
	return &AppError{StatusCode: http.StatusUnprocessableEntity, Code: "unprocessable_entity", Message: message}
}

func NewTooLargeError(message string) *AppError {
	return &AppError{StatusCode: http.StatusRequestEntityTooLarge, Code: "payload_too_large", Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Code: "internal_error", Message: message}
}

// WrapInternal builds a 500 error that keeps the underlying cause for logging.
func WrapInternal(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Code: "internal_error", Message: message, Err: err}
}

// AsAppError reports whether err (or anything it wraps) is an *AppError.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
