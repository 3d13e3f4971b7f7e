// Package apperr carries an HTTP status alongside domain errors.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Status  int
	Message string
	Meta    map[string]any // extra response fields
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
	return http.StatusText(e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// Domain is a rule violation reported as 422
func Domain(message string, meta map[string]any) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Message: message, Meta: meta}
}

// As unwraps err into an *Error if there is one in the chain
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
