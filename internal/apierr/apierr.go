package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation    = "VALIDATION"
	CodeAuthorization = "AUTHORIZATION"
	CodeInvalidState  = "INVALID_STATE"
	CodeConflict      = "CONFLICT"
	CodeDuplicate     = "DUPLICATE"
	CodeNotFound      = "NOT_FOUND"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf(format, args...))
}

func Authorization(format string, args ...interface{}) *Error {
	return New(http.StatusForbidden, CodeAuthorization, fmt.Errorf(format, args...))
}

func InvalidState(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, CodeInvalidState, fmt.Errorf(format, args...))
}

func Conflict(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, CodeConflict, fmt.Errorf(format, args...))
}

// Duplicate is a conflict the UI explains differently ("you already rated
// this project"), so it carries its own code.
func Duplicate(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, CodeDuplicate, fmt.Errorf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

// CodeOf returns the taxonomy code of err, or "" if err is not an *Error.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// StatusOf returns the HTTP status for err, defaulting to 500 for errors
// outside the taxonomy.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}
