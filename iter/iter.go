// Package iter runs a function over every element of a slice concurrently,
// capturing the exception raised by each element separately.
package iter

import (
	"runtime"
	"sync/atomic"

	"github.com/sourcegraph/sourcegraph/lib/errors"

	"github.com/sourcegraph/catch"
	"github.com/sourcegraph/catch/exception"
)

func defaultMaxGoroutines() int { return runtime.GOMAXPROCS(0) }

// Iterator can be used to configure the behaviour of ForEach
// and ForEachIdx. The zero value is safe to use with reasonable
// defaults.
//
// Iterator is also safe for reuse and concurrent use.
type Iterator[T any] struct {
	// MaxGoroutines controls the maximum number of goroutines
	// to use on this Iterator's methods.
	//
	// If unset, MaxGoroutines defaults to runtime.GOMAXPROCS(0).
	MaxGoroutines int
}

// ForEach executes f in parallel over each element in input.
//
// An exception raised by f stops only the element it was raised for. The
// returned error combines the exceptions of all elements, in input order, and
// is nil if none raised. Other panics are propagated to the caller once all
// elements have been visited.
//
// It is safe to mutate the input parameter, which makes it
// possible to map in place.
func ForEach[T any](input []T, f func(*T)) error {
	return Iterator[T]{}.ForEach(input, f)
}

// ForEach is the same as ForEach except it uses the Iterator's
// configuration.
func (iter Iterator[T]) ForEach(input []T, f func(*T)) error {
	return iter.ForEachIdx(input, func(_ int, t *T) {
		f(t)
	})
}

// ForEachIdx is the same as ForEach except it also provides the
// index of the element to the callback.
func ForEachIdx[T any](input []T, f func(int, *T)) error {
	return Iterator[T]{}.ForEachIdx(input, f)
}

// ForEachIdx is the same as ForEachIdx except it uses the
// Iterator's configuration.
func (iter Iterator[T]) ForEachIdx(input []T, f func(int, *T)) error {
	var errs error
	for _, e := range iter.capture(input, f) {
		if e != nil {
			errs = errors.Append(errs, e)
		}
	}
	return errs
}

// capture runs f over input and returns the exception raised for each index,
// or nil for the ones that returned normally.
func (iter Iterator[T]) capture(input []T, f func(int, *T)) []*exception.Exception {
	if iter.MaxGoroutines == 0 {
		// iter is a value receiver and is hence safe to mutate
		iter.MaxGoroutines = defaultMaxGoroutines()
	}

	numInput := len(input)
	if iter.MaxGoroutines > numInput {
		// No more concurrent tasks than the number of input items.
		iter.MaxGoroutines = numInput
	}

	caught := make([]*exception.Exception, numInput)

	var idx atomic.Int64
	// Create the task outside the loop to avoid extra closure allocations.
	task := func() {
		i := int(idx.Add(1) - 1)
		for ; i < numInput; i = int(idx.Add(1) - 1) {
			caught[i] = catch.Invoke(func() { f(i, &input[i]) })
		}
	}

	var wg catch.WaitGroup
	for i := 0; i < iter.MaxGoroutines; i++ {
		wg.Go(task)
	}
	// Tasks never raise since each element runs under Invoke, so the only
	// thing Wait can report is a panic, which it propagates.
	_ = wg.Wait()

	return caught
}
