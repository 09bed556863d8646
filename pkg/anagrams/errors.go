package anagrams

import (
	"fmt"

	"code.anagramas.org/golang/internal/utils"
)

// errorFlag is a private error type that allows declaring error constants.
type errorFlag string

const (
	// All package errors are wrapping Error
	Error             = errorFlag("anagrams: error")
	ErrInvalidLetters = errorFlag("anagrams: invalid letters")
	ErrRequest        = errorFlag("anagrams: request failed")
	ErrUnauthorized   = errorFlag("anagrams: unauthorized")
	noError           = errorFlag("")
)

// Error implements the error interface.
func (self errorFlag) Error() string {
	return string(self)
}

func (self errorFlag) Unwrap() error {
	if Error == self || noError == self {
		return nil
	}
	return Error
}

// newError returns a utils.RaisedErr{} that contains file & line of where it was called.
func newError(msg string, args ...any) error {
	return utils.NewError(1, Error, msg, args...)
}

// wrapError returns a utils.RaisedErr{} that contains file & line of where it was called.
func wrapError(cause error, msg string, args ...any) error {
	return utils.WrapError(cause, 1, Error, msg, args...)
}

// StatusError reports a non 2xx response of the anagrams API.
type StatusError struct {
	Status int
}

// Error implements the error interface.
func (self StatusError) Error() string {
	return fmt.Sprintf("got status %d", self.Status)
}
