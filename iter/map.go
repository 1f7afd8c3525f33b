package iter

import (
	"github.com/sourcegraph/sourcegraph/lib/errors"
)

// Mapper is an Iterator with a result type R. It can be used to configure
// the behaviour of Map. The zero value is safe to use with reasonable
// defaults.
//
// Mapper is also safe for reuse and concurrent use.
type Mapper[T, R any] Iterator[T]

// Map applies f to each element of input, returning the mapped result and
// the combined exceptions raised by f, in input order. Elements whose
// function raised are left as the zero value of R.
//
// Map always uses at most runtime.GOMAXPROCS goroutines. For a configurable
// goroutine limit, use a custom Mapper.
func Map[T, R any](input []T, f func(*T) R) ([]R, error) {
	return Mapper[T, R]{}.Map(input, f)
}

// Map applies f to each element of input, returning the mapped result and
// the combined exceptions raised by f.
//
// Map uses up to the configured Mapper's maximum number of goroutines.
func (m Mapper[T, R]) Map(input []T, f func(*T) R) ([]R, error) {
	res := make([]R, len(input))
	err := Iterator[T](m).ForEachIdx(input, func(i int, t *T) {
		res[i] = f(t)
	})
	return res, err
}

// MapErr applies f to each element of the input, returning the mapped result
// and a combined error of all returned errors and raised exceptions, in input
// order.
//
// MapErr always uses at most runtime.GOMAXPROCS goroutines. For a configurable
// goroutine limit, use a custom Mapper.
func MapErr[T, R any](input []T, f func(*T) (R, error)) ([]R, error) {
	return Mapper[T, R]{}.MapErr(input, f)
}

// MapErr applies f to each element of the input, returning the mapped result
// and a combined error of all returned errors and raised exceptions.
//
// MapErr uses up to the configured Mapper's maximum number of goroutines.
func (m Mapper[T, R]) MapErr(input []T, f func(*T) (R, error)) ([]R, error) {
	var (
		res      = make([]R, len(input))
		returned = make([]error, len(input))
	)
	caught := Iterator[T](m).capture(input, func(i int, t *T) {
		res[i], returned[i] = f(t)
	})

	var errs error
	for i := range input {
		// An element either returns or raises, never both.
		if returned[i] != nil {
			errs = errors.Append(errs, returned[i])
		} else if caught[i] != nil {
			errs = errors.Append(errs, caught[i])
		}
	}
	return res, errs
}
