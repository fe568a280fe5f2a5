package average

import (
	"github.com/weiihann/errbench/result"
	"github.com/weiihann/errbench/workload"
)

// Expected returns the mean of seq, or a failed container holding an
// EmptySequenceError.
func Expected(seq workload.Sequence) result.Expected[int] {
	if len(seq) == 0 {
		return result.Fail[int](EmptySequenceError{})
	}

	return result.Of(mean(seq))
}

// MultiExpected returns the subtree mean. The container of the first
// failed child is returned unchanged.
func MultiExpected(ds workload.Dataset, start, level int) result.Expected[int] {
	stride := workload.Stride(level)

	sum := 0
	for i := 0; i < workload.FanOut; i++ {
		idx := start + i*stride

		var val result.Expected[int]
		if level == 0 {
			val = Expected(ds[idx])
		} else {
			val = MultiExpected(ds, idx, level-1)
		}

		if !val.Valid() {
			return val
		}

		sum += val.Get()
	}

	return result.Of(sum / workload.FanOut)
}

// MultiExpectedGet returns the subtree mean, extracting every child with
// Get. A failed leaf re-signals its captured failure as a panic that
// unwinds the whole walk.
func MultiExpectedGet(ds workload.Dataset, start, level int) int {
	stride := workload.Stride(level)

	sum := 0
	for i := 0; i < workload.FanOut; i++ {
		idx := start + i*stride

		if level == 0 {
			sum += Expected(ds[idx]).Get()
		} else {
			sum += result.Of(MultiExpectedGet(ds, idx, level-1)).Get()
		}
	}

	return sum / workload.FanOut
}

// MultiExpectedTolerant returns the subtree mean, counting failed leaves
// as 0.
func MultiExpectedTolerant(ds workload.Dataset, start, level int) int {
	stride := workload.Stride(level)

	sum := 0
	for i := 0; i < workload.FanOut; i++ {
		idx := start + i*stride

		if level > 0 {
			sum += MultiExpectedTolerant(ds, idx, level-1)

			continue
		}

		if val := Expected(ds[idx]); val.Valid() {
			sum += val.Get()
		}
	}

	return sum / workload.FanOut
}
