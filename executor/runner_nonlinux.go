//go:build !linux

package executor

import (
	"context"
	"fmt"

	"github.com/cretz/sandboxd/limits"
)

type unsupportedRunner struct{}

func newPlatformRunner(string) Runner { return &unsupportedRunner{} }

func (*unsupportedRunner) Run(context.Context, string, []string, limits.Limits) (*Outcome, error) {
	return nil, fmt.Errorf("sandboxed execution only supported on linux")
}
