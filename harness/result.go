// Package harness measures the aggregation strategies against generated
// datasets and cross-checks that they agree.
package harness

// Result holds the measurement of one strategy on one dataset.
type Result struct {
	RunID       string  `json:"run_id"`
	Strategy    string  `json:"strategy"`
	Tolerant    bool    `json:"tolerant"`
	EmptyCount  int     `json:"empty_count"`
	Iterations  int     `json:"iterations"`
	NsPerOp     float64 `json:"ns_per_op"`
	AllocsPerOp int64   `json:"allocs_per_op"`
	BytesPerOp  int64   `json:"bytes_per_op"`
	Value       int     `json:"value"`
	Failed      bool    `json:"failed"`
	Error       string  `json:"error,omitempty"`
}
