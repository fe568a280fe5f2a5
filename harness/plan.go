package harness

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/weiihann/errbench/workload"
)

// ErrInvalidPlan is returned for a plan that cannot be run.
var ErrInvalidPlan = errors.New("invalid plan")

// DefaultEmptyCounts is the catalog of forced-empty leaf counts.
var DefaultEmptyCounts = []int{0, 10, 100}

// Plan describes which configurations a benchmark run covers.
type Plan struct {
	Seed        uint64        `yaml:"seed"`
	EmptyCounts []int         `yaml:"empty_counts"`
	Strategies  []string      `yaml:"strategies"`
	BenchTime   time.Duration `yaml:"bench_time"`
	// Timeout bounds each measurement and the whole verification pass.
	// Zero means no limit.
	Timeout     time.Duration `yaml:"timeout"`
}

// DefaultPlan covers every strategy over DefaultEmptyCounts.
func DefaultPlan() Plan {
	return Plan{
		Seed:        workload.DefaultSeed,
		EmptyCounts: append([]int(nil), DefaultEmptyCounts...),
		Strategies:  KnownStrategies(),
		BenchTime:   time.Second,
	}
}

// LoadPlan reads a YAML plan from path. Fields missing from the file keep
// their DefaultPlan values.
func LoadPlan(path string) (Plan, error) {
	plan := DefaultPlan()

	data, err := os.ReadFile(path)
	if err != nil {
		return plan, fmt.Errorf("read plan %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &plan); err != nil {
		return plan, fmt.Errorf("parse plan %s: %w", path, err)
	}

	if err := plan.Validate(); err != nil {
		return plan, err
	}

	return plan, nil
}

// Validate checks that every empty count fits the dataset and every
// strategy is registered.
func (p Plan) Validate() error {
	if len(p.EmptyCounts) == 0 {
		return fmt.Errorf("%w: no empty counts", ErrInvalidPlan)
	}

	for _, count := range p.EmptyCounts {
		if count < 0 || count > workload.NumSequences {
			return fmt.Errorf("%w: empty count %d not in [0, %d]",
				ErrInvalidPlan, count, workload.NumSequences)
		}
	}

	if _, err := Resolve(p.Strategies); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}

	if p.BenchTime < 0 {
		return fmt.Errorf("%w: negative bench time %s", ErrInvalidPlan, p.BenchTime)
	}

	if p.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", ErrInvalidPlan, p.Timeout)
	}

	return nil
}
