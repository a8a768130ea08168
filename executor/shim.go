package executor

import (
	"encoding/json"
	"fmt"

	"github.com/cretz/sandboxd/limits"
)

// ShimSubcommand is the internal CLI subcommand name the limited-child shim
// registers as (`sandboxd limit-exec ...`). Re-exec'd by the Linux runner
// and dispatched by cmd.Execute before Cobra's normal parsing.
const ShimSubcommand = "limit-exec"

// EncodeLimits serializes l for passage as a single shim argument.
func EncodeLimits(l limits.Limits) (string, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("encoding limits: %w", err)
	}
	return string(b), nil
}

// DecodeLimits parses a shim argument produced by EncodeLimits.
func DecodeLimits(s string) (limits.Limits, error) {
	var l limits.Limits
	if err := json.Unmarshal([]byte(s), &l); err != nil {
		return limits.Limits{}, fmt.Errorf("decoding limits: %w", err)
	}
	return l, nil
}
