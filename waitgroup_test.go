package catch

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sourcegraph/sourcegraph/lib/errors"

	"github.com/sourcegraph/catch/exception"
)

func ExampleWaitGroup() {
	var count atomic.Int64

	var wg WaitGroup
	for i := 0; i < 10; i++ {
		wg.Go(func() {
			count.Add(1)
		})
	}
	err := wg.Wait()

	fmt.Println(count.Load())
	fmt.Println(err)
	// Output:
	// 10
	// <nil>
}

func TestWaitGroup(t *testing.T) {
	t.Parallel()

	t.Run("all spawned run", func(t *testing.T) {
		t.Parallel()
		var count atomic.Int64
		var wg WaitGroup
		for i := 0; i < 100; i++ {
			wg.Go(func() {
				count.Add(1)
			})
		}
		require.NoError(t, wg.Wait())
		require.Equal(t, int64(100), count.Load())
	})

	t.Run("exceptions", func(t *testing.T) {
		t.Parallel()

		t.Run("are returned", func(t *testing.T) {
			t.Parallel()
			var wg WaitGroup
			wg.Go(func() { exception.Raise("Bounds", "index out of range") })
			err := wg.Wait()
			require.ErrorIs(t, err, exception.New("Bounds", ""))

			var e *exception.Exception
			require.ErrorAs(t, err, &e)
			require.Equal(t, "index out of range", e.Reason)
		})

		t.Run("are all returned", func(t *testing.T) {
			t.Parallel()
			var wg WaitGroup
			wg.Go(func() { exception.Raise("First", "") })
			wg.Go(func() {})
			wg.Go(func() { exception.Raise("Second", "") })
			err := wg.Wait()
			require.ErrorIs(t, err, exception.New("First", ""))
			require.ErrorIs(t, err, exception.New("Second", ""))
		})

		t.Run("do not stop other work", func(t *testing.T) {
			t.Parallel()
			var wg WaitGroup
			var i atomic.Int64
			wg.Go(func() { i.Add(1) })
			wg.Go(func() { exception.Raise("Bounds", "") })
			wg.Go(func() { i.Add(1) })
			require.Error(t, wg.Wait())
			require.Equal(t, int64(2), i.Load())
		})
	})

	t.Run("panic", func(t *testing.T) {
		t.Parallel()

		t.Run("is propagated", func(t *testing.T) {
			t.Parallel()
			var wg WaitGroup
			wg.Go(func() {
				panic("super bad thing")
			})
			require.Panics(t, func() { _ = wg.Wait() })
		})

		t.Run("carries the original value", func(t *testing.T) {
			t.Parallel()
			var wg WaitGroup
			wg.Go(func() {
				panic("super bad thing")
			})

			var r any
			func() {
				defer func() { r = recover() }()
				_ = wg.Wait()
			}()
			recovered, ok := r.(*RecoveredPanic)
			require.True(t, ok)
			require.Equal(t, "super bad thing", recovered.Value)
			require.Contains(t, string(recovered.Stack), "TestWaitGroup", "stack should be the child goroutine's")
		})

		t.Run("error value is reachable", func(t *testing.T) {
			t.Parallel()
			err1 := errors.New("SOS")
			var wg WaitGroup
			wg.Go(func() {
				panic(err1)
			})

			var r any
			func() {
				defer func() { r = recover() }()
				_ = wg.Wait()
			}()
			err, ok := r.(error)
			require.True(t, ok)
			require.ErrorIs(t, err, err1)
		})

		t.Run("wins over exceptions", func(t *testing.T) {
			t.Parallel()
			var wg WaitGroup
			wg.Go(func() { exception.Raise("Bounds", "") })
			wg.Go(func() { panic("super bad thing") })
			require.Panics(t, func() { _ = wg.Wait() })
		})

		t.Run("nonpanics run successfully", func(t *testing.T) {
			t.Parallel()
			var wg WaitGroup
			var i atomic.Int64
			wg.Go(func() {
				i.Add(1)
			})
			wg.Go(func() {
				panic("super bad thing")
			})
			wg.Go(func() {
				i.Add(1)
			})
			require.Panics(t, func() { _ = wg.Wait() })
			require.Equal(t, int64(2), i.Load())
		})
	})
}
