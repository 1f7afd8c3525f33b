// Package panics recovers arbitrary panics so they can be carried from a child
// goroutine to the goroutine that waits on it. The public API of this module
// only captures exceptions.
package panics

import (
	"fmt"
	"runtime/debug"
)

// Recovered is a panic that was caught with recover().
type Recovered struct {
	// The original value of the panic.
	Value any
	// The formatted stacktrace from the goroutine where the panic was recovered.
	Stack []byte
}

// Catch executes f and returns the panic it raised, if any.
func Catch(f func()) (recovered *Recovered) {
	defer func() {
		if val := recover(); val != nil {
			recovered = &Recovered{Value: val, Stack: debug.Stack()}
		}
	}()
	f()
	return nil
}

func (r *Recovered) Error() string {
	return fmt.Sprintf("panic: %v\nstacktrace:\n%s\n", r.Value, r.Stack)
}

// Unwrap returns the panic value if it was an error.
func (r *Recovered) Unwrap() error {
	if err, ok := r.Value.(error); ok {
		return err
	}
	return nil
}
