// Package apperror carries an HTTP-class status alongside a failure so that
// every service operation reports errors through one type.
package apperror

import (
	"errors"
	"net/http"
)

type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on status so callers can write errors.Is(err, apperror.NotFound("")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Status == t.Status
}

func New(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

func BadRequest(msg string) *Error   { return New(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *Error { return New(http.StatusUnauthorized, msg) }
func Forbidden(msg string) *Error    { return New(http.StatusForbidden, msg) }
func NotFound(msg string) *Error     { return New(http.StatusNotFound, msg) }

func Internal(err error) *Error {
	e := &Error{Status: http.StatusInternalServerError, Err: err}
	if err != nil {
		e.Message = err.Error()
	}
	return e
}

// Wrap attaches status to err unless err already carries one.
func Wrap(err error, status int) *Error {
	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}
	var ws interface{ HTTPStatus() int }
	if errors.As(err, &ws) && ws.HTTPStatus() >= 400 {
		status = ws.HTTPStatus()
	}
	e := &Error{Status: status, Err: err}
	if err != nil {
		e.Message = err.Error()
	}
	return e
}

func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
