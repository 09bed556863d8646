// Package guard gates navigation on the presence of a client Session.
package guard

import (
	"code.anagramas.org/golang/internal/utils"
	"code.anagramas.org/golang/pkg/session"
)

// DefaultLoginPath is where Guard redirects when LoginPath is empty.
const DefaultLoginPath = "/login"

// errorFlag is a private error type that allows declaring error constants.
type errorFlag string

const (
	Error = errorFlag("guard: error")
)

// Error implements the error interface.
func (self errorFlag) Error() string {
	return string(self)
}

// SessionReader exposes the current Session, session.Store implements it.
type SessionReader interface {
	Current() (session.Session, bool)
}

// Guard permits navigation only when a Session is present.
type Guard struct {
	store     SessionReader
	redirect  func(dest string)
	loginPath string
}

// New returns a Guard that reads store and calls redirect with loginPath on denied navigation.
// DefaultLoginPath is used if loginPath is empty.
// It errors if store or redirect is nil.
func New(store SessionReader, redirect func(dest string), loginPath string) (*Guard, error) {
	if nil == store {
		return nil, utils.NewError(0, Error, "nil store")
	}
	if nil == redirect {
		return nil, utils.NewError(0, Error, "nil redirect")
	}
	if "" == loginPath {
		loginPath = DefaultLoginPath
	}

	return &Guard{store: store, redirect: redirect, loginPath: loginPath}, nil
}

// CanActivate returns true if a Session is present.
// Otherwise it calls the redirect function once and returns false.
//
// CanActivate reads a snapshot of the store, it never blocks on network calls.
func (self *Guard) CanActivate() bool {
	if _, present := self.store.Current(); present {
		return true
	}
	self.redirect(self.loginPath)
	return false
}
