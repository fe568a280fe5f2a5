// Package average computes the truncating integer mean of the dataset's
// sequences, and the mean of means over the dataset's implicit tree, once
// per failure-signaling strategy.
//
// Every strategy computes the same function. They differ only in how an
// empty sequence is reported to the caller:
//
//   - Ignore: returns 0, indistinguishable from a real zero mean.
//   - Ret: writes through an out pointer and returns a success flag.
//   - Expected: returns a result.Expected holding a deferred failure.
//   - Coded: returns a result.Coded holding CodeEmptySequence.
//   - Panic: panics with ErrEmptySequence.
//   - Err: returns ErrEmptySequence as a second result.
//
// The Multi* functions walk the subtree rooted at start. A node at level
// has FanOut children spaced workload.Stride(level) apart; children of a
// level 0 node are leaves. Strict variants stop at the first failed child
// and report the failure with the same convention. Tolerant variants count
// a failed child as zero and still divide by FanOut.
package average

import (
	"github.com/weiihann/errbench/workload"
)

// RootLevel is the level of the node covering the whole dataset.
const RootLevel = workload.Levels - 1

// CodeEmptySequence is the failure code used by the Coded strategy.
const CodeEmptySequence uint32 = 1

// EmptySequenceError reports an aggregation over a sequence with no
// elements. Values compare equal, so errors.Is matches any instance
// against ErrEmptySequence.
type EmptySequenceError struct{}

func (EmptySequenceError) Error() string { return "empty sequence" }

// ErrEmptySequence is the failure raised or returned for empty input.
var ErrEmptySequence error = EmptySequenceError{}

func mean(seq workload.Sequence) int {
	sum := 0
	for _, el := range seq {
		sum += el
	}

	return sum / len(seq)
}
