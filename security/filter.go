// Package security implements the static security filter: it inspects
// submitted source for imported module names and rejects anything outside
// the runtime's allow-list before any child process is spawned.
package security

import (
	"fmt"

	"github.com/cretz/sandboxd/runtime"
)

// Check runs the family-appropriate static filter over code and returns a
// non-empty reject reason, or "" if the code passes. No process is spawned
// as part of this call; a submission that fails here never reaches the
// executor.
func Check(code string, family runtime.Family, allowed map[string]struct{}) string {
	switch family {
	case runtime.FamilyJS:
		return checkJS(code, allowed)
	default:
		return checkPython(code, allowed)
	}
}

func unsupportedPackage(name string) string {
	return fmt.Sprintf("Unsupported package: %s", name)
}

func syntaxError(detail string) string {
	return fmt.Sprintf("Code syntax error: %s", detail)
}
