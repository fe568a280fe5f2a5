package harness

import (
	"errors"
	"fmt"

	"github.com/weiihann/errbench/average"
	"github.com/weiihann/errbench/workload"
)

// ErrUnknownStrategy is returned by Lookup for an unregistered name.
var ErrUnknownStrategy = errors.New("unknown strategy")

// ErrAggregateFailed is reported by strategies whose failure signal carries
// no error value of its own.
var ErrAggregateFailed = errors.New("aggregation failed")

// Strategy adapts one aggregation variant to a common contract.
type Strategy struct {
	Name string
	// Tolerant strategies never fail. The ignore baseline counts as
	// tolerant since it has no failure signal.
	Tolerant  bool
	Aggregate func(ds workload.Dataset) (int, error)
	// Describe optionally renders a failure returned by Aggregate with
	// details that are too costly to build on the measured path.
	Describe func(ds workload.Dataset, err error) string
}

// Explain returns the text reported for a failure of s on ds.
func (s Strategy) Explain(ds workload.Dataset, err error) string {
	if s.Describe != nil {
		return s.Describe(ds, err)
	}

	return err.Error()
}

var strategies = []Strategy{
	{Name: "ignore", Tolerant: true, Aggregate: aggregateIgnore},
	{Name: "ret", Aggregate: aggregateRet},
	{Name: "ret-tolerant", Tolerant: true, Aggregate: aggregateRetTolerant},
	{Name: "panic", Aggregate: aggregatePanic},
	{Name: "panic-tolerant", Tolerant: true, Aggregate: aggregatePanicTolerant},
	{Name: "expected", Aggregate: aggregateExpected},
	{Name: "expected-get", Aggregate: aggregateExpectedGet},
	{Name: "expected-tolerant", Tolerant: true, Aggregate: aggregateExpectedTolerant},
	{Name: "coded", Aggregate: aggregateCoded, Describe: describeCoded},
	{Name: "coded-tolerant", Tolerant: true, Aggregate: aggregateCodedTolerant},
	{Name: "err", Aggregate: aggregateErr},
	{Name: "err-tolerant", Tolerant: true, Aggregate: aggregateErrTolerant},
}

// KnownStrategies returns the names of all registered strategies in
// reporting order.
func KnownStrategies() []string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name
	}

	return names
}

// Lookup returns the strategy registered under name.
func Lookup(name string) (Strategy, error) {
	for _, s := range strategies {
		if s.Name == name {
			return s, nil
		}
	}

	return Strategy{}, fmt.Errorf("%w %q", ErrUnknownStrategy, name)
}

// Resolve looks up every name, or all strategies when names is empty.
func Resolve(names []string) ([]Strategy, error) {
	if len(names) == 0 {
		names = KnownStrategies()
	}

	out := make([]Strategy, 0, len(names))

	for _, name := range names {
		s, err := Lookup(name)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}

func aggregateIgnore(ds workload.Dataset) (int, error) {
	return average.MultiIgnore(ds, 0, average.RootLevel), nil
}

func aggregateRet(ds workload.Dataset) (int, error) {
	var res int
	if !average.MultiRet(ds, 0, average.RootLevel, &res) {
		return 0, ErrAggregateFailed
	}

	return res, nil
}

func aggregateRetTolerant(ds workload.Dataset) (int, error) {
	var res int
	average.MultiRetTolerant(ds, 0, average.RootLevel, &res)

	return res, nil
}

func aggregatePanic(ds workload.Dataset) (int, error) {
	return average.Catch(func() int {
		return average.MultiPanic(ds, 0, average.RootLevel)
	})
}

func aggregatePanicTolerant(ds workload.Dataset) (int, error) {
	return average.MultiPanicTolerant(ds, 0, average.RootLevel), nil
}

// aggregateExpected extracts the value with Get so a failure takes the
// re-signal path.
func aggregateExpected(ds workload.Dataset) (int, error) {
	res := average.MultiExpected(ds, 0, average.RootLevel)

	return average.Catch(res.Get)
}

func aggregateExpectedGet(ds workload.Dataset) (int, error) {
	return average.Catch(func() int {
		return average.MultiExpectedGet(ds, 0, average.RootLevel)
	})
}

func aggregateExpectedTolerant(ds workload.Dataset) (int, error) {
	return average.MultiExpectedTolerant(ds, 0, average.RootLevel), nil
}

func aggregateCoded(ds workload.Dataset) (int, error) {
	res := average.MultiCoded(ds, 0, average.RootLevel)
	if !res.Valid() {
		return 0, ErrAggregateFailed
	}

	return res.Get(), nil
}

func describeCoded(ds workload.Dataset, err error) string {
	code := average.MultiCoded(ds, 0, average.RootLevel).Code()

	return fmt.Sprintf("%v: code %d", err, code)
}

func aggregateCodedTolerant(ds workload.Dataset) (int, error) {
	return average.MultiCodedTolerant(ds, 0, average.RootLevel), nil
}

func aggregateErr(ds workload.Dataset) (int, error) {
	return average.MultiErr(ds, 0, average.RootLevel)
}

func aggregateErrTolerant(ds workload.Dataset) (int, error) {
	return average.MultiErrTolerant(ds, 0, average.RootLevel), nil
}
