// Package main provides the CLI entry point for errbench, a benchmark of
// error-propagation strategies over a recursive aggregation.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/weiihann/errbench/harness"
	"github.com/weiihann/errbench/report"
	"github.com/weiihann/errbench/workload"
)

// seedEnv overrides the default seed when --seed is not given.
const seedEnv = "ERRBENCH_SEED"

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	root := newRootCmd(logger, level)
	if err := root.Execute(); err != nil {
		logger.Error("errbench failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:   "errbench",
		Short: "Benchmark error-propagation strategies",
		Long: `Errbench measures how much it costs to report a failure from the leaves
of a deep recursive aggregation, comparing sentinel values, out parameters,
panics, error returns, and value-or-failure containers under a growing number
of failing leaves.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// A missing .env file is the common case.
			_ = godotenv.Load()

			if debug {
				level.Set(slog.LevelDebug)
			}
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug logging")

	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newVerifyCmd(logger))
	root.AddCommand(newListCmd())

	return root
}

type planFlags struct {
	configPath  string
	seed        uint64
	emptyCounts []int
	strategies  []string
	benchTime   time.Duration
	timeout     time.Duration
}

func (f *planFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "",
		"Path to a YAML plan file")
	flags.Uint64Var(&f.seed, "seed", workload.DefaultSeed,
		"Random seed for dataset generation (env "+seedEnv+")")
	flags.IntSliceVar(&f.emptyCounts, "empty", harness.DefaultEmptyCounts,
		"Number of forced-empty sequences per configuration")
	flags.StringSliceVar(&f.strategies, "strategies", nil,
		"Strategies to run (default all, see 'errbench list')")
	flags.DurationVar(&f.benchTime, "bench-time", time.Second,
		"Target measurement time per strategy and configuration")
	flags.DurationVar(&f.timeout, "timeout", 0,
		"Bound each measurement and the cross-check (0 for no limit)")
}

// resolve builds the plan from defaults, the plan file, the environment
// and explicitly set flags, in increasing priority.
func (f *planFlags) resolve(cmd *cobra.Command) (harness.Plan, error) {
	plan := harness.DefaultPlan()

	if f.configPath != "" {
		var err error

		plan, err = harness.LoadPlan(f.configPath)
		if err != nil {
			return plan, err
		}
	}

	if env := os.Getenv(seedEnv); env != "" {
		seed, err := strconv.ParseUint(env, 10, 64)
		if err != nil {
			return plan, fmt.Errorf("parse %s: %w", seedEnv, err)
		}

		plan.Seed = seed
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		plan.Seed = f.seed
	}
	if flags.Changed("empty") {
		plan.EmptyCounts = f.emptyCounts
	}
	if flags.Changed("strategies") {
		plan.Strategies = f.strategies
	}
	if flags.Changed("bench-time") {
		plan.BenchTime = f.benchTime
	}
	if flags.Changed("timeout") {
		plan.Timeout = f.timeout
	}

	if err := plan.Validate(); err != nil {
		return plan, err
	}

	return plan, nil
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		pf          planFlags
		outputJSON  bool
		metricsPath string
		skipVerify  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Measure every strategy on every configuration",
		Long: `Generate one deterministic dataset per empty-sequence count, cross-check
that all strategies agree on it, and measure each strategy with the Go
benchmark runner.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := pf.resolve(cmd)
			if err != nil {
				return err
			}

			return runBenchmark(cmd.Context(), logger, cmd.OutOrStdout(), plan, runOptions{
				outputJSON:  outputJSON,
				metricsPath: metricsPath,
				skipVerify:  skipVerify,
			})
		},
	}

	pf.register(cmd)

	flags := cmd.Flags()
	flags.BoolVar(&outputJSON, "json", false,
		"Output results as JSON instead of tables")
	flags.StringVar(&metricsPath, "metrics-file", "",
		"Write results to this file in Prometheus text format")
	flags.BoolVar(&skipVerify, "skip-verify", false,
		"Skip the cross-check before measuring")

	return cmd
}

func newVerifyCmd(logger *slog.Logger) *cobra.Command {
	var pf planFlags

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that all strategies agree without measuring",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := pf.resolve(cmd)
			if err != nil {
				return err
			}

			cases, strategies, err := prepare(cmd.Context(), logger, plan)
			if err != nil {
				return err
			}

			checks, verifyErr := verify(cmd.Context(), logger, plan, cases, strategies)
			if len(checks) > 0 {
				if err := report.GenerateChecks(cmd.OutOrStdout(), checks); err != nil {
					return fmt.Errorf("generate report: %w", err)
				}
			}

			return verifyErr
		},
	}

	pf.register(cmd)

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available strategies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range harness.KnownStrategies() {
				s, err := harness.Lookup(name)
				if err != nil {
					return err
				}

				mode := "strict"
				if s.Tolerant {
					mode = "tolerant"
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", s.Name, mode)
			}

			return nil
		},
	}
}

type runOptions struct {
	outputJSON  bool
	metricsPath string
	skipVerify  bool
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	out io.Writer,
	plan harness.Plan,
	opts runOptions,
) error {
	logger.InfoContext(ctx, "starting benchmark",
		slog.Uint64("seed", plan.Seed),
		slog.Any("empty_counts", plan.EmptyCounts),
		slog.Any("strategies", plan.Strategies),
		slog.Duration("bench_time", plan.BenchTime),
		slog.Duration("timeout", plan.Timeout),
	)

	// Step 1: Generate datasets.
	cases, strategies, err := prepare(ctx, logger, plan)
	if err != nil {
		return err
	}

	// Step 2: Cross-check strategies.
	var checks []harness.Check

	if !opts.skipVerify {
		checks, err = verify(ctx, logger, plan, cases, strategies)
		if err != nil {
			return err
		}

		logger.InfoContext(ctx, "strategies agree", slog.Int("checks", len(checks)))
	}

	// Step 3: Measure each strategy sequentially.
	metrics := harness.NewMetrics()
	runner := harness.NewRunner(logger, metrics)
	results := make([]harness.Result, 0, len(cases)*len(strategies))

	for _, c := range cases {
		for _, s := range strategies {
			result, err := runner.Run(ctx, s, harness.RunConfig{
				Dataset:    c.Dataset,
				EmptyCount: c.EmptyCount,
				BenchTime:  plan.BenchTime,
				Timeout:    plan.Timeout,
			})
			if err != nil {
				return fmt.Errorf("run %s: %w", s.Name, err)
			}

			results = append(results, *result)
		}
	}

	// Step 4: Export metrics.
	if opts.metricsPath != "" {
		if err := metrics.WriteTextfile(opts.metricsPath); err != nil {
			return fmt.Errorf("write metrics %s: %w", opts.metricsPath, err)
		}

		logger.InfoContext(ctx, "metrics written", slog.String("path", opts.metricsPath))
	}

	// Step 5: Generate report.
	if opts.outputJSON {
		if err := report.GenerateJSON(out, results); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	} else {
		if err := report.Generate(out, results, checks); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}

	logger.InfoContext(ctx, "benchmark complete", slog.String("run_id", runner.RunID))

	return nil
}

// verify runs the cross-check within the plan's timeout.
func verify(
	ctx context.Context,
	logger *slog.Logger,
	plan harness.Plan,
	cases []harness.Case,
	strategies []harness.Strategy,
) ([]harness.Check, error) {
	if plan.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, plan.Timeout)
		defer cancel()
	}

	return harness.Verify(ctx, logger, cases, strategies)
}

func prepare(
	ctx context.Context,
	logger *slog.Logger,
	plan harness.Plan,
) ([]harness.Case, []harness.Strategy, error) {
	strategies, err := harness.Resolve(plan.Strategies)
	if err != nil {
		return nil, nil, err
	}

	cases := make([]harness.Case, 0, len(plan.EmptyCounts))

	for _, emptyCount := range plan.EmptyCounts {
		ds, summary, err := workload.NewGenerator(workload.Config{
			Seed:       plan.Seed,
			EmptyCount: emptyCount,
		}).Generate()
		if err != nil {
			return nil, nil, fmt.Errorf("generate dataset: %w", err)
		}

		logger.DebugContext(ctx, "dataset generated",
			slog.Int("sequences", summary.Sequences),
			slog.Int("elements", summary.Elements),
			slog.Int("empty_sequences", summary.EmptySequences),
		)

		cases = append(cases, harness.Case{EmptyCount: emptyCount, Dataset: ds})
	}

	return cases, strategies, nil
}
