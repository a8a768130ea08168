package security

import (
	"fmt"
	"strings"
)

// checkPython extracts top-level package names from "import X" and
// "from X.Y import ..." statements and rejects the first one not present in
// allowed. A line-oriented tokenizer, not a true AST walk: the component
// before the first '.' is the package checked, relative imports
// ("from . import x", no module component) are always allowed, and
// traversal halts at the first rejection.
func checkPython(code string, allowed map[string]struct{}) string {
	if err := checkBalanced(code); err != "" {
		return syntaxError(err)
	}
	for _, stmt := range pythonImportStatements(code) {
		for _, module := range stmt.modules {
			if module == "" {
				// Relative import with no module component, e.g. "from . import x".
				continue
			}
			base := module
			if idx := strings.IndexByte(base, '.'); idx >= 0 {
				base = base[:idx]
			}
			if _, ok := allowed[base]; !ok {
				return unsupportedPackage(base)
			}
		}
	}
	return ""
}

type importStatement struct {
	modules []string
}

// pythonImportStatements scans code line by line (skipping triple-quoted
// string bodies and full-line/trailing comments) and extracts the modules
// named by "import ..." and "from ... import ..." statements.
func pythonImportStatements(code string) []importStatement {
	var stmts []importStatement
	inTriple := false
	var tripleDelim string
	for _, rawLine := range strings.Split(code, "\n") {
		line := rawLine
		if inTriple {
			if idx := strings.Index(line, tripleDelim); idx >= 0 {
				line = line[idx+len(tripleDelim):]
				inTriple = false
			} else {
				continue
			}
		}
		// Strip any later triple-quoted string that starts and doesn't end on
		// this line; also strip simple trailing comments.
		line = stripCommentAndOpenTriple(line, &inTriple, &tripleDelim)
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "import "):
			rest := strings.TrimPrefix(trimmed, "import ")
			stmts = append(stmts, importStatement{modules: parseImportList(rest)})
		case strings.HasPrefix(trimmed, "from "):
			rest := strings.TrimPrefix(trimmed, "from ")
			fields := strings.Fields(rest)
			if len(fields) == 0 {
				continue
			}
			module := fields[0]
			if strings.HasPrefix(module, ".") {
				// Entirely relative, e.g. "from . import x" or "from .sub import y":
				// only a fully-dotted-with-no-name module (just dots) has no
				// top-level package to check; a leading-dot-then-name like
				// ".sub" is still a relative import with no external package.
				stmts = append(stmts, importStatement{modules: []string{""}})
				continue
			}
			stmts = append(stmts, importStatement{modules: []string{module}})
		}
	}
	return stmts
}

// parseImportList splits "a, b.c as d, e" into ["a", "b.c", "e"].
func parseImportList(rest string) []string {
	var modules []string
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, " as "); idx >= 0 {
			part = part[:idx]
		}
		modules = append(modules, strings.TrimSpace(part))
	}
	return modules
}

// stripCommentAndOpenTriple removes a trailing "# ..." comment (best-effort,
// ignoring '#' inside simple quoted strings) and detects a triple-quoted
// string opening on this line, updating inTriple/tripleDelim for subsequent
// lines.
func stripCommentAndOpenTriple(line string, inTriple *bool, tripleDelim *string) string {
	var b strings.Builder
	inSingle, inDouble := false, false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if !inSingle && !inDouble && strings.HasPrefix(line[i:], `"""`) {
			*inTriple = true
			*tripleDelim = `"""`
			if end := strings.Index(line[i+3:], `"""`); end >= 0 {
				*inTriple = false
				i += 3 + end + 2
				continue
			}
			return b.String()
		}
		if !inSingle && !inDouble && strings.HasPrefix(line[i:], "'''") {
			*inTriple = true
			*tripleDelim = "'''"
			if end := strings.Index(line[i+3:], "'''"); end >= 0 {
				*inTriple = false
				i += 3 + end + 2
				continue
			}
			return b.String()
		}
		switch {
		case c == '\'' && !inDouble:
			inSingle = !inSingle
		case c == '"' && !inSingle:
			inDouble = !inDouble
		case c == '#' && !inSingle && !inDouble:
			return b.String()
		}
		b.WriteByte(c)
	}
	return b.String()
}

// checkBalanced is a coarse syntax sanity check: unbalanced brackets or
// quotes are the cheapest honest-mistake signal available without a real
// parser.
func checkBalanced(code string) string {
	var stack []byte
	pairs := map[byte]byte{')': '(', ']': '[', '}': '{'}
	inSingle, inDouble := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c == '\\' && i+1 < len(code) && (inSingle || inDouble) {
			i++
			continue
		}
		switch {
		case c == '\'' && !inDouble:
			inSingle = !inSingle
			continue
		case c == '"' && !inSingle:
			inDouble = !inDouble
			continue
		}
		if inSingle || inDouble {
			continue
		}
		switch c {
		case '(', '[', '{':
			stack = append(stack, c)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[c] {
				return fmt.Sprintf("unbalanced %q", c)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if inSingle || inDouble {
		return "unterminated string literal"
	}
	if len(stack) > 0 {
		return fmt.Sprintf("unclosed %q", stack[len(stack)-1])
	}
	return ""
}
