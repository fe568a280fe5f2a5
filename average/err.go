package average

import "github.com/weiihann/errbench/workload"

// Err returns the mean of seq, or ErrEmptySequence when seq is empty.
func Err(seq workload.Sequence) (int, error) {
	if len(seq) == 0 {
		return 0, ErrEmptySequence
	}

	return mean(seq), nil
}

// MultiErr returns the subtree mean, or the error of the first failed leaf.
func MultiErr(ds workload.Dataset, start, level int) (int, error) {
	stride := workload.Stride(level)

	sum := 0
	for i := 0; i < workload.FanOut; i++ {
		idx := start + i*stride

		var (
			val int
			err error
		)

		if level == 0 {
			val, err = Err(ds[idx])
		} else {
			val, err = MultiErr(ds, idx, level-1)
		}

		if err != nil {
			return 0, err
		}

		sum += val
	}

	return sum / workload.FanOut, nil
}

// MultiErrTolerant returns the subtree mean, counting failed leaves as 0.
func MultiErrTolerant(ds workload.Dataset, start, level int) int {
	stride := workload.Stride(level)

	sum := 0
	for i := 0; i < workload.FanOut; i++ {
		idx := start + i*stride

		if level > 0 {
			sum += MultiErrTolerant(ds, idx, level-1)

			continue
		}

		if val, err := Err(ds[idx]); err == nil {
			sum += val
		}
	}

	return sum / workload.FanOut
}
