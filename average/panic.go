package average

import (
	"errors"

	"github.com/weiihann/errbench/workload"
)

// Panic returns the mean of seq. It panics with ErrEmptySequence when seq
// is empty.
func Panic(seq workload.Sequence) int {
	if len(seq) == 0 {
		panic(ErrEmptySequence)
	}

	return mean(seq)
}

// MultiPanic returns the subtree mean. The first empty leaf panics with
// ErrEmptySequence, unwinding the whole walk.
func MultiPanic(ds workload.Dataset, start, level int) int {
	stride := workload.Stride(level)

	sum := 0
	for i := 0; i < workload.FanOut; i++ {
		idx := start + i*stride

		if level == 0 {
			sum += Panic(ds[idx])
		} else {
			sum += MultiPanic(ds, idx, level-1)
		}
	}

	return sum / workload.FanOut
}

// MultiPanicTolerant returns the subtree mean, recovering the panic of
// each failed child and counting it as 0.
func MultiPanicTolerant(ds workload.Dataset, start, level int) int {
	stride := workload.Stride(level)

	sum := 0
	for i := 0; i < workload.FanOut; i++ {
		idx := start + i*stride

		val, err := Catch(func() int {
			if level == 0 {
				return Panic(ds[idx])
			}

			return MultiPanicTolerant(ds, idx, level-1)
		})
		if err == nil {
			sum += val
		}
	}

	return sum / workload.FanOut
}

// Catch runs fn and converts an ErrEmptySequence panic into an error.
// Any other panic is propagated.
func Catch(fn func() int) (val int, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		if rerr, ok := r.(error); ok && errors.Is(rerr, ErrEmptySequence) {
			err = rerr

			return
		}

		panic(r)
	}()

	return fn(), nil
}
