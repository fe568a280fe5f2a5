// Package report formats benchmark results into comparison tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/weiihann/errbench/harness"
)

// Generate writes a markdown comparison table per empty count, followed by
// the verification status when checks are given.
func Generate(w io.Writer, results []harness.Result, checks []harness.Check) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to report")
	}

	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)

	if len(checks) > 0 {
		writeChecks(w, checks)
	}

	for _, emptyCount := range emptyCounts(results) {
		group := filterEmpty(results, emptyCount)
		fastest := findFastest(group)

		fmt.Fprintf(w, "### %d empty sequences\n", emptyCount)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Strategy | Mode | Time/op | Allocs/op | Bytes/op "+
			"| Result | Relative |")
		fmt.Fprintln(w, "|----------|------|---------|-----------|----------"+
			"|--------|----------|")

		for _, r := range group {
			relative := 1.0
			if fastest > 0 && r.NsPerOp > 0 {
				relative = r.NsPerOp / fastest
			}

			fmt.Fprintf(w, "| %s | %s | %s | %d | %s | %s | %.2fx |\n",
				r.Strategy,
				formatMode(r.Tolerant),
				formatNs(r.NsPerOp),
				r.AllocsPerOp,
				formatBytes(r.BytesPerOp),
				formatOutcome(r),
				relative,
			)
		}

		fmt.Fprintln(w)
	}

	return nil
}

// GenerateJSON writes results as JSON to w.
func GenerateJSON(w io.Writer, results []harness.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(results)
}

// GenerateChecks writes the verification table for checks.
func GenerateChecks(w io.Writer, checks []harness.Check) error {
	if len(checks) == 0 {
		return fmt.Errorf("no checks to report")
	}

	fmt.Fprintln(w, "## Verification")
	fmt.Fprintln(w)
	writeChecks(w, checks)

	fmt.Fprintln(w, "| Empty | Strategy | Result | Expected | Status |")
	fmt.Fprintln(w, "|-------|----------|--------|----------|--------|")

	for _, c := range checks {
		status := "ok"
		if !c.OK {
			status = "**" + c.Reason + "**"
		}

		want := fmt.Sprintf("%d", c.Want)
		if c.WantFailed {
			want = "failure"
		}

		got := fmt.Sprintf("%d", c.Value)
		if c.Failed {
			got = "failure"
		}

		fmt.Fprintf(w, "| %d | %s | %s | %s | %s |\n",
			c.EmptyCount, c.Strategy, got, want, status)
	}

	return nil
}

func writeChecks(w io.Writer, checks []harness.Check) {
	failed := 0
	for _, c := range checks {
		if !c.OK {
			failed++
		}
	}

	if failed == 0 {
		fmt.Fprintln(w, "Cross-check: **all strategies agree**")
	} else {
		fmt.Fprintf(w, "Cross-check: **%d MISMATCH**\n", failed)

		for _, c := range checks {
			if !c.OK {
				fmt.Fprintf(w, "  - empty=%d %s: %s\n",
					c.EmptyCount, c.Strategy, c.Reason)
			}
		}
	}

	fmt.Fprintln(w)
}

func emptyCounts(results []harness.Result) []int {
	seen := make(map[int]bool)

	var counts []int
	for _, r := range results {
		if !seen[r.EmptyCount] {
			seen[r.EmptyCount] = true
			counts = append(counts, r.EmptyCount)
		}
	}

	sort.Ints(counts)

	return counts
}

func filterEmpty(results []harness.Result, emptyCount int) []harness.Result {
	var out []harness.Result
	for _, r := range results {
		if r.EmptyCount == emptyCount {
			out = append(out, r)
		}
	}

	return out
}

func findFastest(results []harness.Result) float64 {
	fastest := math.MaxFloat64
	for _, r := range results {
		if r.NsPerOp > 0 && r.NsPerOp < fastest {
			fastest = r.NsPerOp
		}
	}

	if fastest == math.MaxFloat64 {
		return 0
	}

	return fastest
}

func formatMode(tolerant bool) string {
	if tolerant {
		return "tolerant"
	}

	return "strict"
}

func formatOutcome(r harness.Result) string {
	if r.Failed {
		return "failed"
	}

	return fmt.Sprintf("%d", r.Value)
}

func formatNs(ns float64) string {
	switch {
	case ns <= 0:
		return "-"
	case ns < 1e3:
		return fmt.Sprintf("%.0fns", ns)
	case ns < 1e6:
		return fmt.Sprintf("%.2fµs", ns/1e3)
	case ns < 1e9:
		return fmt.Sprintf("%.2fms", ns/1e6)
	default:
		return fmt.Sprintf("%.2fs", ns/1e9)
	}
}

func formatBytes(b int64) string {
	if b == 0 {
		return "-"
	}

	units := []string{"B", "KB", "MB", "GB"}
	size := float64(b)
	unit := 0

	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}

	if unit == 0 {
		return fmt.Sprintf("%d B", b)
	}

	return fmt.Sprintf("%.1f %s", size, units[unit])
}
