package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/weiihann/errbench/average"
	"github.com/weiihann/errbench/workload"
)

// ErrMismatch is returned when a strategy disagrees with the expected
// outcome.
var ErrMismatch = errors.New("strategy mismatch")

// Case is one dataset configuration to verify.
type Case struct {
	EmptyCount int
	Dataset    workload.Dataset
}

// Check is the verification outcome of one strategy on one case.
type Check struct {
	Strategy   string `json:"strategy"`
	EmptyCount int    `json:"empty_count"`
	Value      int    `json:"value"`
	Failed     bool   `json:"failed"`
	Want       int    `json:"want"`
	WantFailed bool   `json:"want_failed"`
	OK         bool   `json:"ok"`
	Reason     string `json:"reason,omitempty"`
}

// Verify runs every strategy on every case and checks that:
//
//   - with no empty leaf, all strategies return the ignore baseline,
//   - with an empty leaf, strict strategies fail and tolerant ones return
//     the baseline, which counts empty leaves as zero,
//   - a second call returns the same outcome.
//
// Cases run concurrently over their own read-only datasets and stop at the
// next strategy once ctx is done. Checks are returned in case then strategy
// order, with every mismatch joined into the error.
func Verify(
	ctx context.Context,
	logger *slog.Logger,
	cases []Case,
	strategies []Strategy,
) ([]Check, error) {
	perCase := make([][]Check, len(cases))

	g, gctx := errgroup.WithContext(ctx)

	for i, c := range cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			checks, err := verifyCase(gctx, c, strategies)
			if err != nil {
				return err
			}

			perCase[i] = checks

			logger.DebugContext(gctx, "case verified",
				slog.Int("empty_count", c.EmptyCount),
				slog.Int("checks", len(perCase[i])),
			)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	var (
		checks []Check
		errs   []error
	)

	for _, cs := range perCase {
		for _, c := range cs {
			checks = append(checks, c)

			if !c.OK {
				errs = append(errs, fmt.Errorf("%w: empty=%d %s: %s",
					ErrMismatch, c.EmptyCount, c.Strategy, c.Reason))
			}
		}
	}

	return checks, errors.Join(errs...)
}

func verifyCase(ctx context.Context, c Case, strategies []Strategy) ([]Check, error) {
	want := average.MultiIgnore(c.Dataset, 0, average.RootLevel)
	hasEmpty := workload.Summarize(c.Dataset).EmptySequences > 0

	checks := make([]Check, 0, len(strategies))

	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		val, err := s.Aggregate(c.Dataset)
		again, againErr := s.Aggregate(c.Dataset)

		check := Check{
			Strategy:   s.Name,
			EmptyCount: c.EmptyCount,
			Value:      val,
			Failed:     err != nil,
			Want:       want,
			WantFailed: hasEmpty && !s.Tolerant,
		}

		switch {
		case check.Failed != check.WantFailed:
			check.Reason = fmt.Sprintf("failed = %t, want %t", check.Failed, check.WantFailed)
		case !check.Failed && val != want:
			check.Reason = fmt.Sprintf("value = %d, want %d", val, want)
		case (againErr != nil) != check.Failed || again != val:
			check.Reason = fmt.Sprintf("repeat call returned %d (err %v), first %d (err %v)",
				again, againErr, val, err)
		default:
			check.OK = true
		}

		checks = append(checks, check)
	}

	return checks, nil
}
