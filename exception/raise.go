package exception

import (
	"runtime"

	"github.com/sourcegraph/sourcegraph/lib/errors"
)

// Raise throws a new Exception with the given name and reason.
func Raise(name, reason string) {
	throw(1, New(name, reason))
}

// Raisef is like Raise, but formats the reason.
func Raisef(name, format string, args ...any) {
	throw(1, Newf(name, format, args...))
}

// Throw panics with a copy of e that records the caller as the raise site.
// The panic unwinds until it is captured by catch.Invoke, or crashes the
// program like any other panic if nothing captures it.
//
// Throwing a nil Exception is a programming error and panics with a plain
// error that catch.Invoke does not capture.
func Throw(e *Exception) {
	throw(1, e)
}

// throw panics with e. The skip parameter counts stack frames above the
// caller of throw that should not be recorded as the raise site.
func throw(skip int, e *Exception) {
	if e == nil {
		panic(errors.New("exception: Throw called with a nil Exception"))
	}
	// 64 frames should be plenty
	var callers [64]uintptr
	n := runtime.Callers(skip+2, callers[:])

	raised := e.Clone()
	raised.callers = callers[:n:n]
	panic(raised)
}
