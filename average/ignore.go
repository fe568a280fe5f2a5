package average

import "github.com/weiihann/errbench/workload"

// Ignore returns the mean of seq, or 0 when seq is empty.
func Ignore(seq workload.Sequence) int {
	if len(seq) == 0 {
		return 0
	}

	return mean(seq)
}

// MultiIgnore returns the mean of the subtree, counting empty leaves as 0.
// It cannot fail.
func MultiIgnore(ds workload.Dataset, start, level int) int {
	stride := workload.Stride(level)

	sum := 0
	for i := 0; i < workload.FanOut; i++ {
		idx := start + i*stride

		if level == 0 {
			sum += Ignore(ds[idx])
		} else {
			sum += MultiIgnore(ds, idx, level-1)
		}
	}

	return sum / workload.FanOut
}
