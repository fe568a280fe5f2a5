package harness

import (
	"flag"
	"fmt"
	"sync"
	"testing"
	"time"
)

var (
	initOnce  sync.Once
	benchMu   sync.Mutex
	benchTime time.Duration
)

// Measure runs fn under testing.Benchmark for roughly d (1s when d <= 0).
// Calls are serialized since the benchmark time is process-wide.
func Measure(d time.Duration, fn func()) (testing.BenchmarkResult, error) {
	initOnce.Do(testing.Init)

	benchMu.Lock()
	defer benchMu.Unlock()

	if d <= 0 {
		d = time.Second
	}

	if d != benchTime {
		if err := setBenchTime(flag.CommandLine, d); err != nil {
			return testing.BenchmarkResult{}, err
		}

		benchTime = d
	}

	return testing.Benchmark(func(b *testing.B) {
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			fn()
		}
	}), nil
}

func setBenchTime(fs *flag.FlagSet, d time.Duration) error {
	if err := fs.Set("test.benchtime", d.String()); err != nil {
		return fmt.Errorf("set bench time %s: %w", d, err)
	}

	return nil
}
