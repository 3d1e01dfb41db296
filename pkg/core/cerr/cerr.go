// Package cerr provides the core errors which carry their
// classification for the outer layers. A use case wraps a failure in
// an Error, choosing a status code, and the REST adapter reports that
// status code without having to know about the failure details.
package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

func UnprocessableEntity(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusUnprocessableEntity}
}

// StatusCode returns the status code of the outer-most Error in the
// err chain, or http.StatusInternalServerError if there is none.
func StatusCode(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.HTTPStatusCode
	}
	return http.StatusInternalServerError
}
