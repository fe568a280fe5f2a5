package average

import "github.com/weiihann/errbench/workload"

// Ret stores the mean of seq in *res and returns true. For an empty seq it
// returns false and leaves *res untouched.
func Ret(seq workload.Sequence, res *int) bool {
	if len(seq) == 0 {
		return false
	}

	*res = mean(seq)

	return true
}

// MultiRet stores the subtree mean in *res. It returns false as soon as
// any leaf is empty, leaving *res untouched.
func MultiRet(ds workload.Dataset, start, level int, res *int) bool {
	stride := workload.Stride(level)

	// Declared outside the loop so the recursive call's out pointer stays
	// on the stack.
	var (
		val int
		ok  bool
	)

	sum := 0
	for i := 0; i < workload.FanOut; i++ {
		idx := start + i*stride

		if level == 0 {
			ok = Ret(ds[idx], &val)
		} else {
			ok = MultiRet(ds, idx, level-1, &val)
		}

		if !ok {
			return false
		}

		sum += val
	}

	*res = sum / workload.FanOut

	return true
}

// MultiRetTolerant stores the subtree mean in *res, counting failed
// children as 0. It always returns true.
func MultiRetTolerant(ds workload.Dataset, start, level int, res *int) bool {
	stride := workload.Stride(level)

	var (
		val int
		ok  bool
	)

	sum := 0
	for i := 0; i < workload.FanOut; i++ {
		idx := start + i*stride

		if level == 0 {
			ok = Ret(ds[idx], &val)
		} else {
			ok = MultiRetTolerant(ds, idx, level-1, &val)
		}

		if ok {
			sum += val
		}
	}

	*res = sum / workload.FanOut

	return true
}
