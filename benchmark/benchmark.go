package benchmark

import (
	"context"
	"math"
	"time"

	"github.com/perflab-ai/modelbench/models"
	"github.com/perflab-ai/modelbench/sysmon"
	"github.com/pkg/errors"
)

// Runner executes benchmark runs against a model, single-threaded and
// synchronous: every timed inference is bracketed by a before and after
// system sample, so sampling is never overlapped with inference.
type Runner struct {
	sampler *sysmon.Sampler
}

// NewRunner creates a benchmark runner using the given sampler.
func NewRunner(sampler *sysmon.Sampler) *Runner {
	return &Runner{sampler: sampler}
}

// Run benchmarks the model. One untimed warm-up pass absorbs first-call
// initialization, then each iteration optionally sleeps MockDelay, samples
// metrics, times a single forward pass, and samples again. Inference
// failures propagate immediately; no partial result is returned.
func (r *Runner) Run(ctx context.Context, m models.Model, cfg RunConfig) (*Result, error) {
	input := cfg.Input
	if input == nil {
		input = models.NewRandomInput(cfg.Shape)
	}

	if _, err := m.Infer(ctx, input); err != nil {
		return nil, errors.Wrap(err, "warm-up inference")
	}

	log := make(Log, 0, cfg.Iterations)
	var total float64

	for i := 0; i < cfg.Iterations; i++ {
		if cfg.MockDelay > 0 {
			time.Sleep(cfg.MockDelay)
		}

		before, err := r.sampler.Sample(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "sampling before iteration %d", i)
		}

		start := time.Now()
		if _, err := m.Infer(ctx, input); err != nil {
			return nil, errors.Wrapf(err, "inference at iteration %d", i)
		}
		elapsed := time.Since(start).Seconds()

		after, err := r.sampler.Sample(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "sampling after iteration %d", i)
		}

		total += elapsed
		log = append(log, IterationRecord{
			Iteration:     i,
			Before:        before,
			After:         after,
			InferenceTime: elapsed,
		})
	}

	avg := 0.0
	if len(log) > 0 {
		avg = total / float64(len(log))
	}

	throughput := math.Inf(1)
	if avg != 0 {
		throughput = 1.0 / avg
	}

	return &Result{AvgTime: avg, Throughput: throughput, Log: log}, nil
}
