package catch

import (
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/sourcegraph/lib/errors"

	"github.com/sourcegraph/catch/exception"
	"github.com/sourcegraph/catch/internal/panics"
)

// RecoveredPanic is the value WaitGroup.Wait panics with when a goroutine
// panicked with something other than an exception. Value holds the original
// panic value and Stack the stack of the goroutine it was recovered on. It is
// an error; Unwrap returns Value when Value is itself an error.
type RecoveredPanic = panics.Recovered

// WaitGroup runs functions on their own goroutines and collects the exceptions
// they raise. Calling Wait() will ensure that each of those goroutines exits
// before continuing. Panics that are not exceptions are propagated to the
// caller of Wait().
//
// The zero value is ready to use.
type WaitGroup struct {
	wg sync.WaitGroup

	mu   sync.Mutex
	errs error

	panicked atomic.Pointer[panics.Recovered]
}

// Go spawns a new goroutine in the WaitGroup that executes work.
func (g *WaitGroup) Go(work func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if r := panics.Catch(func() { g.add(Invoke(work)) }); r != nil {
			g.panicked.CompareAndSwap(nil, r)
		}
	}()
}

// Wait blocks until all goroutines spawned with Go exit. It returns nil if
// none of them raised an exception, and otherwise an error combining every
// captured exception.
//
// If a goroutine panicked with anything other than an exception, Wait panics
// with a *RecoveredPanic holding the first such value and the stack of the
// goroutine it came from.
func (g *WaitGroup) Wait() error {
	g.wg.Wait()

	if r := g.panicked.Load(); r != nil {
		panic(r)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.errs
}

func (g *WaitGroup) add(e *exception.Exception) {
	if e == nil {
		return
	}
	g.mu.Lock()
	g.errs = errors.Append(g.errs, e)
	g.mu.Unlock()
}
