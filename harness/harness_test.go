package harness

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/weiihann/errbench/workload"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func generate(t *testing.T, emptyCount int) workload.Dataset {
	t.Helper()

	ds, _, err := workload.NewGenerator(workload.Config{
		Seed:       workload.DefaultSeed,
		EmptyCount: emptyCount,
	}).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	return ds
}

func TestKnownStrategies(t *testing.T) {
	names := KnownStrategies()
	if len(names) != 12 {
		t.Fatalf("strategies = %d, want 12", len(names))
	}

	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			t.Errorf("duplicate strategy %q", name)
		}
		seen[name] = true

		s, err := Lookup(name)
		if err != nil {
			t.Errorf("Lookup(%q) failed: %v", name, err)
		}
		if s.Name != name {
			t.Errorf("Lookup(%q).Name = %q", name, s.Name)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("longjmp")
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("err = %v, want ErrUnknownStrategy", err)
	}
}

func TestResolveDefaultsToAll(t *testing.T) {
	all, err := Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(all) != len(KnownStrategies()) {
		t.Errorf("resolved %d strategies, want %d",
			len(all), len(KnownStrategies()))
	}

	if _, err := Resolve([]string{"ret", "nope"}); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("err = %v, want ErrUnknownStrategy", err)
	}
}

func TestStrategiesOnGeneratedData(t *testing.T) {
	clean := generate(t, 0)
	sparse := generate(t, 100)

	for _, name := range KnownStrategies() {
		s, _ := Lookup(name)

		val, err := s.Aggregate(clean)
		if err != nil {
			t.Errorf("%s: unexpected failure: %v", name, err)
		}
		if val != 511 {
			t.Errorf("%s: value = %d, want 511", name, val)
		}

		val, err = s.Aggregate(sparse)
		switch {
		case s.Tolerant && err != nil:
			t.Errorf("%s: tolerant strategy failed: %v", name, err)
		case s.Tolerant && val != 506:
			t.Errorf("%s: value = %d, want 506", name, val)
		case !s.Tolerant && err == nil:
			t.Errorf("%s: strict strategy returned %d, want failure", name, val)
		}
	}
}

func TestVerify(t *testing.T) {
	cases := []Case{
		{EmptyCount: 0, Dataset: generate(t, 0)},
		{EmptyCount: 10, Dataset: generate(t, 10)},
		{EmptyCount: 100, Dataset: generate(t, 100)},
	}

	all, _ := Resolve(nil)

	checks, err := Verify(context.Background(), discardLogger(), cases, all)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if len(checks) != len(cases)*len(all) {
		t.Fatalf("checks = %d, want %d", len(checks), len(cases)*len(all))
	}

	for _, c := range checks {
		if !c.OK {
			t.Errorf("empty=%d %s: %s", c.EmptyCount, c.Strategy, c.Reason)
		}
	}

	if checks[0].EmptyCount != 0 || checks[len(checks)-1].EmptyCount != 100 {
		t.Error("checks are not in case order")
	}
}

func TestVerifyDetectsMismatch(t *testing.T) {
	offByOne := Strategy{
		Name: "off-by-one",
		Aggregate: func(ds workload.Dataset) (int, error) {
			val, err := aggregateErr(ds)
			return val + 1, err
		},
	}
	neverFails := Strategy{
		Name: "never-fails",
		Aggregate: func(ds workload.Dataset) (int, error) {
			return aggregateIgnore(ds)
		},
	}

	cases := []Case{
		{EmptyCount: 0, Dataset: generate(t, 0)},
		{EmptyCount: 10, Dataset: generate(t, 10)},
	}

	checks, err := Verify(context.Background(), discardLogger(), cases,
		[]Strategy{offByOne, neverFails})
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("err = %v, want ErrMismatch", err)
	}

	var failed []string
	for _, c := range checks {
		if !c.OK {
			failed = append(failed, c.Strategy)
		}
	}

	// off-by-one is wrong on clean data, never-fails on sparse data.
	want := []string{"off-by-one", "never-fails"}
	if strings.Join(failed, ",") != strings.Join(want, ",") {
		t.Errorf("failed checks = %v, want %v", failed, want)
	}
}

func TestVerifyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	all, _ := Resolve(nil)

	_, err := Verify(ctx, discardLogger(),
		[]Case{{EmptyCount: 0, Dataset: generate(t, 0)}}, all)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRunnerRun(t *testing.T) {
	if testing.Short() {
		t.Skip("measures real timings")
	}

	metrics := NewMetrics()
	runner := NewRunner(discardLogger(), metrics)

	if runner.RunID == "" {
		t.Fatal("runner has no run ID")
	}

	s, _ := Lookup("ret")
	ds := generate(t, 10)

	result, err := runner.Run(context.Background(), s, RunConfig{
		Dataset:    ds,
		EmptyCount: 10,
		BenchTime:  10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.RunID != runner.RunID {
		t.Errorf("run_id = %q, want %q", result.RunID, runner.RunID)
	}
	if result.Strategy != "ret" || result.EmptyCount != 10 {
		t.Errorf("unexpected identity: %+v", result)
	}
	if result.Iterations <= 0 {
		t.Errorf("iterations = %d, want > 0", result.Iterations)
	}
	if result.NsPerOp <= 0 {
		t.Errorf("ns_per_op = %f, want > 0", result.NsPerOp)
	}
	if !result.Failed || result.Error == "" {
		t.Errorf("strict strategy on sparse data should fail: %+v", result)
	}

	path := filepath.Join(t.TempDir(), "errbench.prom")
	if err := metrics.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}

	for _, want := range []string{
		`errbench_ns_per_op{empty_count="10",strategy="ret"}`,
		`errbench_failures_total{empty_count="10",strategy="ret"} 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %s\n%s", want, data)
		}
	}
}

func TestRunnerRejectsShortDataset(t *testing.T) {
	runner := NewRunner(discardLogger(), nil)
	s, _ := Lookup("ignore")

	_, err := runner.Run(context.Background(), s, RunConfig{
		Dataset: make(workload.Dataset, 10),
	})
	if err == nil {
		t.Fatal("expected error for short dataset")
	}
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(discardLogger(), nil)
	s, _ := Lookup("ignore")

	_, err := runner.Run(ctx, s, RunConfig{Dataset: generate(t, 0)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRunnerTimeout(t *testing.T) {
	runner := NewRunner(discardLogger(), nil)
	s, _ := Lookup("ignore")

	_, err := runner.Run(context.Background(), s, RunConfig{
		Dataset:   generate(t, 0),
		BenchTime: time.Millisecond,
		Timeout:   time.Nanosecond,
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestVerifyDeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()

	<-ctx.Done()

	all, _ := Resolve(nil)

	_, err := Verify(ctx, discardLogger(),
		[]Case{{EmptyCount: 100, Dataset: generate(t, 100)}}, all)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestAggregateDoesNotAllocate(t *testing.T) {
	sparse := generate(t, 100)

	for _, name := range KnownStrategies() {
		s, _ := Lookup(name)

		allocs := testing.AllocsPerRun(10, func() {
			Sink, _ = s.Aggregate(sparse)
		})
		if allocs != 0 {
			t.Errorf("%s: %v allocs per run, want 0", name, allocs)
		}
	}
}

func TestCodedExplainsFailureCode(t *testing.T) {
	s, _ := Lookup("coded")
	ds := generate(t, 10)

	_, err := s.Aggregate(ds)
	if !errors.Is(err, ErrAggregateFailed) {
		t.Fatalf("err = %v, want ErrAggregateFailed", err)
	}

	if got, want := s.Explain(ds, err), "aggregation failed: code 1"; got != want {
		t.Errorf("Explain = %q, want %q", got, want)
	}

	ret, _ := Lookup("ret")
	if got := ret.Explain(ds, ErrAggregateFailed); got != ErrAggregateFailed.Error() {
		t.Errorf("Explain without Describe = %q", got)
	}
}

func TestSetBenchTimeUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("empty", flag.ContinueOnError)

	if err := setBenchTime(fs, time.Second); err == nil {
		t.Fatal("expected error for missing test.benchtime flag")
	}
}
