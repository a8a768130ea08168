// Package executor implements the sandboxed subprocess runner: it spawns a
// child under the resource limits resolved by package limits,
// enforces a wall-clock timeout, captures stdout/stderr, and guarantees the
// child (and any process-group descendants) are reaped before returning.
package executor

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxCapturedOutputBytes bounds how much of a single stream this package
// will buffer in memory before truncating. A misbehaving (but otherwise
// rlimit-compliant) child can still write unbounded bytes to a pipe rather
// than a file, so the FSIZE rlimit alone does not bound captured output
// size.
const maxCapturedOutputBytes = 1 << 20 // 1 MiB per stream

// Job tracks one sandboxed child's execution from spawn to completion.
// Callers should never mutate any of the visible fields after spawn.
type Job struct {
	// ID of the job, never empty. Used in server-side logs only; it is
	// never surfaced to the HTTP caller.
	ID        string
	Command   string
	Args      []string
	CreatedAt time.Time
	PID       int

	mu       sync.Mutex
	stdout   []byte
	stderr   []byte
	truncOut bool
	truncErr bool
	exitCode *int
}

func newJob(command string, args []string) *Job {
	return &Job{
		ID:        uuid.New().String(),
		Command:   command,
		Args:      args,
		CreatedAt: time.Now(),
	}
}

func (j *Job) appendOutput(stderr bool, p []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	buf, trunc := &j.stdout, &j.truncOut
	if stderr {
		buf, trunc = &j.stderr, &j.truncErr
	}
	if *trunc {
		return
	}
	remaining := maxCapturedOutputBytes - len(*buf)
	if remaining <= 0 {
		*trunc = true
		return
	}
	if len(p) > remaining {
		p = p[:remaining]
		*trunc = true
	}
	*buf = append(*buf, p...)
}

func (j *Job) markDone(exitCode int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.exitCode = &exitCode
}

// snapshot returns the captured stdout/stderr and exit code under lock.
func (j *Job) snapshot() (stdout, stderr string, exitCode *int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return string(j.stdout), string(j.stderr), j.exitCode
}
