// Package sysmon samples host CPU and memory utilization.
// Uses gopsutil for cross-platform system metrics.
package sysmon

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Sample is a point-in-time reading of host utilization. CPUPercent is
// measured relative to the interval since the previous Sample call in the
// same process, so the very first reading carries a warm-up skew.
type Sample struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	Timestamp     float64 `json:"timestamp"`
}

// Sampler queries instantaneous CPU and memory usage.
type Sampler struct{}

// NewSampler creates a new system metrics sampler.
func NewSampler() *Sampler {
	return &Sampler{}
}

// Sample returns CPU usage since the last call, current memory usage, and
// the wall-clock time in seconds since the epoch. It blocks only for the
// underlying OS query.
func (s *Sampler) Sample(ctx context.Context) (Sample, error) {
	// Zero interval: percentage computed against the previous call.
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return Sample{}, errors.Wrap(err, "sampling cpu percent")
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Sample{}, errors.Wrap(err, "sampling virtual memory")
	}

	sample := Sample{
		MemoryPercent: vm.UsedPercent,
		Timestamp:     float64(time.Now().UnixNano()) / float64(time.Second),
	}
	if len(percents) > 0 {
		sample.CPUPercent = percents[0]
	}
	return sample, nil
}
