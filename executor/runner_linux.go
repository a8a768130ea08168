//go:build linux

package executor

import (
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"syscall"
	"time"

	"github.com/cretz/sandboxd/limits"
)

// linuxRunner is the only supported Runner implementation: it re-execs the
// sandboxd binary as the limited-child shim (`selfExe limit-exec <limits>
// <command> <args...>`) so rlimits apply between fork and exec, places the
// shim in its own process group, and kills the whole group on timeout so a
// child that spawns grandchildren can never outlive the deadline.
type linuxRunner struct {
	selfExe string
}

func newPlatformRunner(selfExe string) Runner {
	return &linuxRunner{selfExe: selfExe}
}

func (r *linuxRunner) Run(ctx context.Context, command string, args []string, l limits.Limits) (*Outcome, error) {
	encodedLimits, err := EncodeLimits(l)
	if err != nil {
		return nil, err
	}
	shimArgs := append([]string{ShimSubcommand, encodedLimits, command}, args...)
	cmd := exec.Command(r.selfExe, shimArgs...)
	// New process group so the whole tree (including any grandchildren the
	// child spawns) can be killed with a single signal to -pid.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Stdin = nil

	job := newJob(command, args)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting child: %w", err)
	}
	job.PID = cmd.Process.Pid

	stdoutDone := drainPipe(job, false, stdout)
	stderrDone := drainPipe(job, true, stderr)

	waitDone := make(chan error, 1)
	go func() {
		<-stdoutDone
		<-stderrDone
		waitDone <- cmd.Wait()
	}()

	timeout := time.Duration(l.WallTimeoutSeconds) * time.Second
	select {
	case err := <-waitDone:
		exitCode := 0
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else if err != nil {
			// Spawn succeeded but Wait failed for a non-exit reason (e.g. I/O).
			return nil, fmt.Errorf("waiting for child: %w", err)
		}
		job.markDone(exitCode)
		stdoutStr, stderrStr, _ := job.snapshot()
		return &Outcome{Stdout: stdoutStr, Error: stderrStr, Success: exitCode == 0}, nil
	case <-time.After(timeout):
		if killErr := syscall.Kill(-job.PID, syscall.SIGKILL); killErr != nil {
			log.Printf("sandbox: job %v: failed signaling process group %v: %v", job.ID, job.PID, killErr)
		}
		// Still must reap the child before returning; an orphan is a bug.
		<-waitDone
		return &Outcome{Stdout: "", Error: TimeoutToken, Success: false}, nil
	}
}

func drainPipe(j *Job, stderr bool, r io.Reader) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 4096)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				j.appendOutput(stderr, buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()
	return done
}
