// Package affinity restricts the current process to a subset of logical
// CPU cores, to observe the effect of reduced parallelism on a CPU-bound
// workload. Children inherit the restriction through the OS.
package affinity

import "runtime"

// AllCores returns the indices of every logical core visible to the
// process, for restoring the default affinity after a restricted run.
func AllCores() []int {
	cores := make([]int, runtime.NumCPU())
	for i := range cores {
		cores[i] = i
	}
	return cores
}

// BusyWork is a fixed-iteration numeric accumulation used only to
// demonstrate how an affinity restriction changes wall-clock duration.
func BusyWork(iterations int) uint64 {
	var x uint64
	for i := 0; i < iterations; i++ {
		x += uint64(i)
	}
	return x
}
