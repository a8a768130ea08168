package executor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cretz/sandboxd/runtime"
)

func pythonDescriptor() runtime.Descriptor {
	return runtime.Descriptor{Name: "python3", Family: runtime.FamilyPython, Command: "/usr/bin/python3"}
}

func nodeDescriptor() runtime.Descriptor {
	return runtime.Descriptor{Name: "nodejs", Family: runtime.FamilyJS, Command: "/usr/bin/node"}
}

func TestBuildInvocationPythonUsesDashC(t *testing.T) {
	command, args := BuildInvocation(pythonDescriptor(), "print('hi')", "")
	require.Equal(t, "/usr/bin/python3", command)
	require.Len(t, args, 2)
	require.Equal(t, "-c", args[0])
	require.Contains(t, args[1], "print('hi')")
}

func TestBuildInvocationNodeUsesDashE(t *testing.T) {
	command, args := BuildInvocation(nodeDescriptor(), "console.log('hi')", "")
	require.Equal(t, "/usr/bin/node", command)
	require.Len(t, args, 2)
	require.Equal(t, "-e", args[0])
	require.Contains(t, args[1], "console.log('hi')")
}

func TestBuildInvocationEmbedsObjBase64(t *testing.T) {
	_, args := BuildInvocation(pythonDescriptor(), "def main(obj):\n    return obj", "eyJhIjogMX0=")
	require.Contains(t, args[1], "eyJhIjogMX0=")

	_, args = BuildInvocation(nodeDescriptor(), "function main(obj) { return obj; }", "eyJhIjogMX0=")
	require.Contains(t, args[1], "eyJhIjogMX0=")
}

func TestBuildInvocationIndentsMultilinePython(t *testing.T) {
	_, args := BuildInvocation(pythonDescriptor(), "x = 1\nprint(x)", "")
	// User code runs inside the wrapper function, so every line after the
	// first must carry the function body indent.
	require.Contains(t, args[1], "x = 1\n    print(x)")
}

func TestEncodeDecodeLimitsRoundTrip(t *testing.T) {
	in := limitsFixture()
	encoded, err := EncodeLimits(in)
	require.NoError(t, err)
	out, err := DecodeLimits(encoded)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestDecodeLimitsRejectsGarbage(t *testing.T) {
	_, err := DecodeLimits("not json")
	require.Error(t, err)
}
