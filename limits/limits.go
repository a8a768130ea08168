// Package limits resolves and applies the rlimits bound onto a sandboxed
// child between fork and exec.
package limits

import (
	"github.com/cretz/sandboxd/config"
	"github.com/cretz/sandboxd/runtime"
)

// Some interpreters (notably modern JS engines) pre-reserve large virtual
// ranges and refuse to start under a tighter address-space cap.
const minMemoryBytes = 1 << 30

// DefaultMaxChildProcesses is the NPROC ceiling for non-JS-family runtimes.
const DefaultMaxChildProcesses = 64

// Limits is the resolved, ready-to-apply resource limit policy for a single
// child invocation.
type Limits struct {
	CPUTimeSeconds     int   `json:"cpu_time_seconds"`
	MemoryBytes        int64 `json:"memory_bytes"`
	FileSizeBytes      int64 `json:"file_size_bytes"`
	WallTimeoutSeconds int   `json:"wall_timeout_seconds"`
	MaxChildProcesses  int   `json:"max_child_processes"`
	ExemptNPROC        bool  `json:"exempt_nproc"` // true for js-like families
}

// Resolve builds the Limits for one invocation of family from the loaded
// resource_limits configuration. Memory is floored to at least 1 GiB here so
// every other call site (the limited-child shim) only has to apply, never
// recompute, the floor.
func Resolve(cfg config.ResourceLimitConfig, family runtime.Family) Limits {
	memBytes := int64(cfg.MemoryLimitMB) * 1024 * 1024
	if memBytes < minMemoryBytes {
		memBytes = minMemoryBytes
	}
	return Limits{
		CPUTimeSeconds:     cfg.CPUTimeLimit,
		MemoryBytes:        memBytes,
		FileSizeBytes:      int64(cfg.FileSizeLimitKB) * 1024,
		WallTimeoutSeconds: cfg.Timeout,
		MaxChildProcesses:  DefaultMaxChildProcesses,
		ExemptNPROC:        family == runtime.FamilyJS,
	}
}
