package security

import (
	"testing"

	"github.com/cretz/sandboxd/runtime"
	"github.com/stretchr/testify/require"
)

func allow(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

func TestCheckPythonAllowsAllowedImport(t *testing.T) {
	reason := Check("import json\nprint(json.dumps({}))", runtime.FamilyPython, allow("json"))
	require.Empty(t, reason)
}

func TestCheckPythonRejectsDisallowedImport(t *testing.T) {
	reason := Check("import os\nprint(os.name)", runtime.FamilyPython, allow("json"))
	require.Equal(t, "Unsupported package: os", reason)
}

func TestCheckPythonChecksTopLevelPackageOnFromImport(t *testing.T) {
	reason := Check("from os.path import join", runtime.FamilyPython, allow("json"))
	require.Equal(t, "Unsupported package: os", reason)
}

func TestCheckPythonAllowsRelativeImport(t *testing.T) {
	reason := Check("from . import helper", runtime.FamilyPython, allow("json"))
	require.Empty(t, reason)
}

func TestCheckPythonReportsFirstRejectionOnly(t *testing.T) {
	reason := Check("import os\nimport sys\n", runtime.FamilyPython, allow())
	require.Equal(t, "Unsupported package: os", reason)
}

func TestCheckPythonSyntaxError(t *testing.T) {
	reason := Check("print('unterminated", runtime.FamilyPython, allow())
	require.Contains(t, reason, "Code syntax error")
}

func TestCheckJSAllowsAllowedRequire(t *testing.T) {
	reason := Check(`const fs = require("fs");`, runtime.FamilyJS, allow("fs"))
	require.Empty(t, reason)
}

func TestCheckJSRejectsDisallowedRequire(t *testing.T) {
	reason := Check(`const http = require('http');`, runtime.FamilyJS, allow("fs"))
	require.Equal(t, "Unsupported package: http", reason)
}

func TestCheckJSNormalizesSubpathImport(t *testing.T) {
	reason := Check(`import x from 'lodash/fp';`, runtime.FamilyJS, allow("lodash"))
	require.Empty(t, reason)
}

func TestCheckJSDynamicImport(t *testing.T) {
	reason := Check(`import('child_process').then(cp => cp.exec('ls'));`, runtime.FamilyJS, allow("fs"))
	require.Equal(t, "Unsupported package: child_process", reason)
}
