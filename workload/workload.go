// Package workload generates the deterministic dataset aggregated by the
// error-propagation benchmarks. A dataset is a flat slice of integer
// sequences that the aggregators walk as a complete base-10 tree.
package workload

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

const (
	// Levels is the depth of the implicit aggregation tree.
	Levels = 4
	// FanOut is the number of children of every non-leaf node.
	FanOut = 10
	// NumSequences is the number of leaves, FanOut^Levels.
	NumSequences = 10000

	// MaxSequenceLen bounds the length of a generated sequence.
	MaxSequenceLen = 20
	// MaxElement is the exclusive upper bound of sequence elements.
	MaxElement = 1024

	// DefaultSeed is used when a Config leaves Seed unset.
	DefaultSeed uint64 = 0
)

// ErrEmptyCount is returned when the requested number of empty sequences
// does not fit in the dataset.
var ErrEmptyCount = errors.New("invalid empty sequence count")

// Sequence is one leaf of the dataset.
type Sequence []int

// Dataset holds NumSequences leaves. It is never mutated after Generate
// returns, so it can be shared between aggregators without locking.
type Dataset []Sequence

// Summary contains statistics about a generated dataset.
type Summary struct {
	Sequences      int
	Elements       int
	EmptySequences int
}

// Config controls dataset generation parameters.
type Config struct {
	Seed       uint64
	EmptyCount int
}

// Generator produces deterministic datasets from a Config.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// NewGenerator creates a Generator from the given Config.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: NewRand(cfg.Seed),
	}
}

// NewRand returns the random source used for a given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Generate builds the dataset and returns it with a Summary.
func (g *Generator) Generate() (Dataset, Summary, error) {
	ds, err := Generate(g.rng, g.cfg.EmptyCount)
	if err != nil {
		return nil, Summary{}, err
	}

	return ds, Summarize(ds), nil
}

// Generate fills NumSequences sequences with 1..MaxSequenceLen elements in
// [0, MaxElement) and then truncates emptyCount distinct sequences to zero
// length. Victims are drawn uniformly and redrawn when already empty, so
// termination is only probabilistic as emptyCount approaches NumSequences.
func Generate(rng *rand.Rand, emptyCount int) (Dataset, error) {
	if emptyCount < 0 || emptyCount > NumSequences {
		return nil, fmt.Errorf("%w: %d not in [0, %d]",
			ErrEmptyCount, emptyCount, NumSequences)
	}

	ds := make(Dataset, NumSequences)

	for i := range ds {
		seq := make(Sequence, 1+rng.IntN(MaxSequenceLen))
		for j := range seq {
			seq[j] = rng.IntN(MaxElement)
		}

		ds[i] = seq
	}

	for i := 0; i < emptyCount; i++ {
		idx := rng.IntN(NumSequences)
		for len(ds[idx]) == 0 {
			idx = rng.IntN(NumSequences)
		}

		ds[idx] = ds[idx][:0]
	}

	return ds, nil
}

// Summarize counts the sequences, elements and empty sequences of ds.
func Summarize(ds Dataset) Summary {
	summary := Summary{Sequences: len(ds)}

	for _, seq := range ds {
		summary.Elements += len(seq)
		if len(seq) == 0 {
			summary.EmptySequences++
		}
	}

	return summary
}

// Stride returns FanOut^level, the index distance between siblings at level.
func Stride(level int) int {
	stride := 1
	for ; level > 0; level-- {
		stride *= FanOut
	}

	return stride
}
