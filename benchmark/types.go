// Package benchmark - timed inference loop and its result log.
package benchmark

import (
	"time"

	"github.com/perflab-ai/modelbench/models"
	"github.com/perflab-ai/modelbench/sysmon"
	"gorgonia.org/tensor"
)

// IterationRecord captures one timed inference bracketed by system samples.
type IterationRecord struct {
	Iteration     int           `json:"iteration"`
	Before        sysmon.Sample `json:"before"`
	After         sysmon.Sample `json:"after"`
	InferenceTime float64       `json:"inference_time"`
}

// Log is the ordered sequence of per-iteration records from one run,
// 0-indexed and contiguous.
type Log []IterationRecord

// Result aggregates a finished run. Throughput is +Inf when AvgTime is zero.
type Result struct {
	AvgTime    float64 `json:"avg_time"`
	Throughput float64 `json:"throughput"`
	Log        Log     `json:"log"`
}

// RunConfig parameterizes a single benchmark run. Input overrides the
// default pseudo-random tensor (e.g. a tensor packed from a real image);
// when nil one is constructed from Shape.
type RunConfig struct {
	Shape      models.InputShape
	Iterations int
	MockDelay  time.Duration
	Input      *tensor.Dense
}
