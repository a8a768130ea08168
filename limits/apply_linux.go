//go:build linux

package limits

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Apply sets the process-wide rlimits described by l on the calling
// process. It must be called in the limited-child shim, after re-exec and
// before exec-ing the real interpreter, so the limits bind to the
// interpreter and every descendant.
func Apply(l Limits) error {
	cpuSoft := uint64(l.CPUTimeSeconds)
	if err := unix.Setrlimit(unix.RLIMIT_CPU, &unix.Rlimit{Cur: cpuSoft, Max: cpuSoft + 2}); err != nil {
		return fmt.Errorf("setting CPU rlimit: %w", err)
	}
	mem := uint64(l.MemoryBytes)
	if err := unix.Setrlimit(unix.RLIMIT_AS, &unix.Rlimit{Cur: mem, Max: mem}); err != nil {
		return fmt.Errorf("setting address space rlimit: %w", err)
	}
	fsize := uint64(l.FileSizeBytes)
	if err := unix.Setrlimit(unix.RLIMIT_FSIZE, &unix.Rlimit{Cur: fsize, Max: fsize}); err != nil {
		return fmt.Errorf("setting file size rlimit: %w", err)
	}
	if !l.ExemptNPROC {
		nproc := uint64(l.MaxChildProcesses)
		if err := unix.Setrlimit(unix.RLIMIT_NPROC, &unix.Rlimit{Cur: nproc, Max: nproc}); err != nil {
			return fmt.Errorf("setting process count rlimit: %w", err)
		}
	}
	return nil
}
