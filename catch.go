// Package catch runs functions that may raise an *exception.Exception and
// hands the exception back as an ordinary return value.
//
// Only exceptions are captured. Any other panic, including runtime errors such
// as a nil dereference or an out-of-range index, keeps unwinding exactly as if
// catch were not involved.
package catch

import (
	"github.com/sourcegraph/catch/exception"
)

// Invoke executes work on the calling goroutine. If work raises an exception,
// Invoke stops the panic and returns a copy of the exception. If work returns
// normally, Invoke returns nil.
//
// Panics with any other value are re-panicked unchanged. work must not be nil.
func Invoke(work func()) (captured *exception.Exception) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*exception.Exception)
			if !ok {
				panic(r)
			}
			captured = e.Clone()
		}
	}()
	work()
	return nil
}
