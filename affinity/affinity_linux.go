//go:build linux

package affinity

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// SetCPUAffinity binds the calling process to the given logical cores.
func SetCPUAffinity(cores []int) error {
	if len(cores) == 0 {
		return errors.New("at least one core is required")
	}

	var set unix.CPUSet
	set.Zero()
	for _, core := range cores {
		set.Set(core)
	}

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return errors.Wrap(err, "sched_setaffinity")
	}
	return nil
}
