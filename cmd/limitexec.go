package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/cretz/sandboxd/executor"
	"github.com/cretz/sandboxd/limits"
)

// ExecLimitedChild is the internal `sandboxd limit-exec <limits> <command>
// <args...>` entry point: apply the decoded rlimits to this process, then
// replace its image with the real interpreter via syscall.Exec so the
// limits survive into the running child. Inherited file descriptors,
// including the stdout/stderr pipe ends the parent process set up, survive
// the exec unchanged.
func ExecLimitedChild(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("limit-exec requires at least an encoded limits argument and a command")
	}
	l, err := executor.DecodeLimits(args[0])
	if err != nil {
		return err
	}
	if err := limits.Apply(l); err != nil {
		return fmt.Errorf("applying resource limits: %w", err)
	}

	command := args[1]
	childArgs := args[1:]
	binary, err := exec.LookPath(command)
	if err != nil {
		return fmt.Errorf("resolving interpreter path %q: %w", command, err)
	}
	return syscall.Exec(binary, childArgs, os.Environ())
}
