package security

import (
	"regexp"
	"strings"
)

var (
	requireRe       = regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	fromImportRe    = regexp.MustCompile(`from\s*['"]([^'"]+)['"]`)
	dynamicImportRe = regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

// checkJS textually scans code for require(...)/from "..."/import("...")
// specifiers and rejects the first one whose leading path component (before
// the first '/', normalizing scoped/sub-path imports) is outside allowed.
// Deliberately no syntax parsing: this is a cheap pre-filter, not a
// semantic guarantee. Containment rests on the rlimit sandbox.
func checkJS(code string, allowed map[string]struct{}) string {
	seen := map[string]struct{}{}
	var specifiers []string
	for _, re := range []*regexp.Regexp{requireRe, fromImportRe, dynamicImportRe} {
		for _, m := range re.FindAllStringSubmatch(code, -1) {
			spec := m[1]
			if _, ok := seen[spec]; ok {
				continue
			}
			seen[spec] = struct{}{}
			specifiers = append(specifiers, spec)
		}
	}
	for _, spec := range specifiers {
		base := spec
		if idx := strings.IndexByte(base, '/'); idx >= 0 {
			base = base[:idx]
		}
		if _, ok := allowed[base]; !ok {
			return unsupportedPackage(base)
		}
	}
	return ""
}
