//go:build !linux

package affinity

import "github.com/pkg/errors"

// SetCPUAffinity is unsupported on this platform.
func SetCPUAffinity(cores []int) error {
	return errors.New("setting CPU affinity is not supported on this platform")
}
