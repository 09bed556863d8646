package session

import (
	"fmt"

	"code.anagramas.org/golang/internal/utils"
)

// errorFlag is a private error type that allows declaring error constants.
type errorFlag string

const (
	// All package errors are wrapping Error
	Error = errorFlag("session: error")

	// AuthError kinds
	ErrValidation         = errorFlag("session: validation error")
	ErrInvalidCredentials = errorFlag("session: invalid credentials")
	ErrConflict           = errorFlag("session: username already taken")
	ErrTransport          = errorFlag("session: transport error")

	ErrMalformedToken = errorFlag("session: token is not a JWT")
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

// AuthError is returned by Store Authenticate & Register when the credential exchange fails.
//
// Kind is one of ErrValidation, ErrInvalidCredentials, ErrConflict or ErrTransport,
// errors.Is(err, session.ErrConflict) can be used to test it.
type AuthError struct {
	Kind    error
	Status  int    // HTTP status, 0 if no response was received
	Message string // server message if any, otherwise a generic description
	Cause   error
}

// Error implements the error interface.
func (self *AuthError) Error() string {
	var rv string
	if 0 == self.Status {
		rv = fmt.Sprintf("%v: %s", self.Kind, self.Message)
	} else {
		rv = fmt.Sprintf("%v (status %d): %s", self.Kind, self.Status, self.Message)
	}
	if nil != self.Cause {
		rv = fmt.Sprintf("%s\n%v", rv, self.Cause)
	}
	return rv
}

// Unwrap returns Kind & Cause.
func (self *AuthError) Unwrap() []error {
	rv := make([]error, 0, 2)
	if nil != self.Kind {
		rv = append(rv, self.Kind)
	}
	if nil != self.Cause {
		rv = append(rv, self.Cause)
	}
	return rv
}

// statusKind maps Auth API response status to AuthError Kind.
func statusKind(status int) error {
	switch status {
	case 400:
		return ErrValidation
	case 401:
		return ErrInvalidCredentials
	case 409:
		return ErrConflict
	default:
		return ErrTransport
	}
}
