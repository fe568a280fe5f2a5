package average

import (
	"github.com/weiihann/errbench/result"
	"github.com/weiihann/errbench/workload"
)

// Coded returns the mean of seq, or a failed container holding
// CodeEmptySequence.
func Coded(seq workload.Sequence) result.Coded[int] {
	if len(seq) == 0 {
		return result.FailCode[int](CodeEmptySequence)
	}

	return result.OfCode(mean(seq))
}

// MultiCoded returns the subtree mean. The container of the first failed
// child is returned unchanged.
func MultiCoded(ds workload.Dataset, start, level int) result.Coded[int] {
	stride := workload.Stride(level)

	sum := 0
	for i := 0; i < workload.FanOut; i++ {
		idx := start + i*stride

		var val result.Coded[int]
		if level == 0 {
			val = Coded(ds[idx])
		} else {
			val = MultiCoded(ds, idx, level-1)
		}

		if !val.Valid() {
			return val
		}

		sum += val.Get()
	}

	return result.OfCode(sum / workload.FanOut)
}

// MultiCodedTolerant returns the subtree mean, counting failed leaves as 0.
func MultiCodedTolerant(ds workload.Dataset, start, level int) int {
	stride := workload.Stride(level)

	sum := 0
	for i := 0; i < workload.FanOut; i++ {
		idx := start + i*stride

		if level > 0 {
			sum += MultiCodedTolerant(ds, idx, level-1)

			continue
		}

		if val := Coded(ds[idx]); val.Valid() {
			sum += val.Get()
		}
	}

	return sum / workload.FanOut
}
