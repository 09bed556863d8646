package utils

import (
	"fmt"
	"path"
	"runtime"
)

// RaisedErr is the error type returned by the anagramas client packages.
// It records the source location where it was raised.
//
// Packages declare a private flag error type with a set of **constant** flags.
// The flag of a RaisedErr makes errors.Is checks possible without type assertions.
type RaisedErr struct {
	// Flag groups related errors, it is usually a package constant.
	Flag error

	// Cause is the error that triggered the RaisedErr{}, it may be nil.
	Cause error

	// Msg describes what went wrong.
	Msg string

	// Filename is "<dir>/<file>.go" of the code that raised the error.
	Filename string

	// Line is the line in Filename that raised the error.
	Line int
}

// Error implements the error interface.
func (self RaisedErr) Error() string {
	if nil == self.Cause {
		return fmt.Sprintf("%s: %s\n  file: %s line: %d", path.Dir(self.Filename), self.Msg, self.Filename, self.Line)
	}
	return fmt.Sprintf("%s: %s\n  file: %s line: %d\n%v", path.Dir(self.Filename), self.Msg, self.Filename, self.Line, self.Cause)
}

// Unwrap returns the Flag & Cause of the RaisedErr, skipping nil ones.
func (self RaisedErr) Unwrap() []error {
	rv := make([]error, 0, 2)
	if nil != self.Flag {
		rv = append(rv, self.Flag)
	}
	if nil != self.Cause {
		rv = append(rv, self.Cause)
	}
	return rv
}

// NewError returns a RaisedErr{} that contains file & line of where it was called.
//
// skip controls Caller frame resolution. Set it to 0 when calling NewError directly,
// set it to 1 when calling NewError from a package level newError helper...
func NewError(skip int, flag error, msg string, args ...any) error {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	err := RaisedErr{Flag: flag, Msg: msg}
	setCaller(skip, &err)
	return err
}

// WrapError returns a RaisedErr{} that wraps cause and contains file & line of where it was called.
// WrapError returns nil if cause is nil, this allows writing "return wrapError(err, ...)".
//
// skip has the same meaning as in NewError.
func WrapError(cause error, skip int, flag error, msg string, args ...any) error {
	if nil == cause {
		return nil
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	err := RaisedErr{Flag: flag, Cause: cause, Msg: msg}
	setCaller(skip, &err)
	return err
}

func setCaller(skip int, err *RaisedErr) {
	_, filename, line, ok := runtime.Caller(2 + skip)
	if !ok {
		return
	}
	dirname, filename := path.Split(filename)
	err.Filename = path.Join(path.Base(dirname), filename)
	err.Line = line
}
