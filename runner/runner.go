// Package runner launches independent benchmark processes and waits for
// all of them to finish.
package runner

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Job is one argument set for a child benchmark process.
type Job struct {
	ID   int
	Args []string
}

// JobResult records how one child terminated. Err is nil on success.
type JobResult struct {
	Job      Job
	ExitCode int
	Duration time.Duration
	Err      error
}

// Runner spawns one OS process per job. Children share nothing beyond the
// logs directory they independently write to; the parent's only
// synchronization is a join per child.
type Runner struct {
	executable string
	logger     *zap.Logger
}

// New creates a runner that re-executes the given binary for each job.
func New(executable string, logger *zap.Logger) *Runner {
	return &Runner{executable: executable, logger: logger}
}

// Run starts every job before joining any of them, then waits in
// submission order. A child's failure is recorded and logged with its
// process identifier; it never aborts siblings or the parent.
func (r *Runner) Run(ctx context.Context, jobs []Job) []JobResult {
	type child struct {
		job   Job
		cmd   *exec.Cmd
		start time.Time
		err   error
	}

	children := make([]child, 0, len(jobs))
	for i, job := range jobs {
		job.ID = i
		cmd := exec.CommandContext(ctx, r.executable, job.Args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		c := child{job: job, cmd: cmd, start: time.Now()}
		if err := cmd.Start(); err != nil {
			c.err = errors.Wrap(err, "starting child")
		} else {
			r.logger.Info("started benchmark process",
				zap.Int("id", job.ID),
				zap.Int("pid", cmd.Process.Pid),
				zap.Strings("args", job.Args))
		}
		children = append(children, c)
	}

	results := make([]JobResult, 0, len(children))
	for _, c := range children {
		result := JobResult{Job: c.job, Err: c.err}
		pid := -1
		if c.err == nil {
			pid = c.cmd.Process.Pid
			err := c.cmd.Wait()
			result.Duration = time.Since(c.start)
			result.ExitCode = exitStatus(err)
			result.Err = err
		}

		if result.Err != nil {
			r.logger.Error("benchmark process failed",
				zap.Int("id", result.Job.ID),
				zap.Int("pid", pid),
				zap.Int("exit_code", result.ExitCode),
				zap.Duration("duration", result.Duration),
				zap.Error(result.Err))
		} else {
			r.logger.Info("benchmark process finished",
				zap.Int("id", result.Job.ID),
				zap.Int("pid", pid),
				zap.Duration("duration", result.Duration))
		}
		results = append(results, result)
	}

	return results
}

func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 1
}

// DefaultJobs returns the built-in argument sets: three independent runs
// with differing models, batch sizes, and one injected delay.
func DefaultJobs() []Job {
	return []Job{
		{Args: []string{"run", "--model", "resnet18", "--iterations", "30", "--batch-size", "1", "--save-logs"}},
		{Args: []string{"run", "--model", "mobilenet_v2", "--iterations", "30", "--batch-size", "2", "--save-logs"}},
		{Args: []string{"run", "--model", "alexnet", "--iterations", "30", "--batch-size", "1", "--mock-delay", "0.01", "--save-logs"}},
	}
}
