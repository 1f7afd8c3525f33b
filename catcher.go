package catch

import (
	"sync/atomic"

	"github.com/sourcegraph/catch/exception"
)

// Catcher is used to capture exceptions from several functions. You can
// execute a function with Try, which will capture any exception it raises.
// Try can be called any number of times, from any number of goroutines. Once
// all calls to Try have completed, you can get the first exception (if any)
// with Caught(), or you can raise it again with Rethrow().
type Catcher struct {
	caught atomic.Pointer[exception.Exception]
}

// Try executes f, capturing any exception it raises. It is safe to call from
// multiple goroutines simultaneously. Panics that are not exceptions are not
// captured.
func (c *Catcher) Try(f func()) {
	if e := Invoke(f); e != nil {
		c.caught.CompareAndSwap(nil, e)
	}
}

// Caught returns the first exception captured by Try, or nil if no calls to
// Try raised.
func (c *Catcher) Caught() *exception.Exception {
	return c.caught.Load()
}

// Rethrow raises the first exception captured by Try, if any.
func (c *Catcher) Rethrow() {
	if e := c.Caught(); e != nil {
		exception.Throw(e)
	}
}
