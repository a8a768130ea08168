//go:build !linux

package limits

import "fmt"

// Apply is only supported on linux; other platforms lack a portable rlimit
// surface equivalent to RLIMIT_AS/RLIMIT_NPROC.
func Apply(Limits) error {
	return fmt.Errorf("resource limit application only supported on linux")
}
