package executor

import (
	"context"
	"os"

	"github.com/cretz/sandboxd/limits"
)

// Runner is the subprocess runner contract (C2): spawn a child under l,
// enforce a wall-clock deadline, capture output, and guarantee the child
// (and its process group) are reaped before returning.
type Runner interface {
	Run(ctx context.Context, command string, args []string, l limits.Limits) (*Outcome, error)
}

// New returns the platform Runner. The currently running sandboxd binary
// is re-exec'd internally as the limited-child shim (`sandboxd limit-exec
// ...`) so rlimits can be applied between fork and exec; os/exec exposes no
// hook to run code at that point in the child directly.
func New() (Runner, error) {
	selfExe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return newPlatformRunner(selfExe), nil
}
