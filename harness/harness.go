package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/weiihann/errbench/workload"
)

// Sink receives every measured value so the aggregation is never
// eliminated as dead code.
var Sink int

// RunConfig holds parameters for a single measurement.
type RunConfig struct {
	Dataset    workload.Dataset
	EmptyCount int
	BenchTime  time.Duration
	// Timeout bounds one measurement. A measurement cannot be interrupted
	// once started, so an overrun is reported when it returns.
	Timeout    time.Duration
}

// Runner measures strategies and records their results.
type Runner struct {
	RunID   string
	Logger  *slog.Logger
	Metrics *Metrics
}

// NewRunner creates a Runner with a fresh run ID. metrics may be nil.
func NewRunner(logger *slog.Logger, metrics *Metrics) *Runner {
	runID := uuid.NewString()

	return &Runner{
		RunID:   runID,
		Logger:  logger.With(slog.String("run_id", runID)),
		Metrics: metrics,
	}
}

// Run measures s on cfg.Dataset and returns the timing together with the
// value or failure the strategy produces.
func (r *Runner) Run(ctx context.Context, s Strategy, cfg RunConfig) (*Result, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run %s: %w", s.Name, err)
	}

	if len(cfg.Dataset) != workload.NumSequences {
		return nil, fmt.Errorf("run %s: dataset has %d sequences, want %d",
			s.Name, len(cfg.Dataset), workload.NumSequences)
	}

	logger := r.Logger.With(
		slog.String("strategy", s.Name),
		slog.Int("empty_count", cfg.EmptyCount),
	)

	logger.DebugContext(ctx, "starting measurement",
		slog.Duration("bench_time", cfg.BenchTime),
	)

	ds := cfg.Dataset
	bench, err := Measure(cfg.BenchTime, func() {
		Sink, _ = s.Aggregate(ds)
	})
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", s.Name, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run %s: %w", s.Name, err)
	}

	val, err := s.Aggregate(ds)

	result := &Result{
		RunID:       r.RunID,
		Strategy:    s.Name,
		Tolerant:    s.Tolerant,
		EmptyCount:  cfg.EmptyCount,
		Iterations:  bench.N,
		AllocsPerOp: bench.AllocsPerOp(),
		BytesPerOp:  bench.AllocedBytesPerOp(),
		Value:       val,
		Failed:      err != nil,
	}

	if bench.N > 0 {
		result.NsPerOp = float64(bench.T.Nanoseconds()) / float64(bench.N)
	}

	if err != nil {
		result.Error = s.Explain(ds, err)
	}

	logger.InfoContext(ctx, "measurement finished",
		slog.Int("iterations", result.Iterations),
		slog.Float64("ns_per_op", result.NsPerOp),
		slog.Bool("failed", result.Failed),
	)

	if r.Metrics != nil {
		r.Metrics.Observe(result)
	}

	return result, nil
}
