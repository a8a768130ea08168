package executor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cretz/sandboxd/limits"
)

func limitsFixture() limits.Limits {
	return limits.Limits{
		CPUTimeSeconds:     10,
		MemoryBytes:        1 << 30,
		FileSizeBytes:      1024 * 1024,
		WallTimeoutSeconds: 10,
		MaxChildProcesses:  64,
	}
}

func TestNewJobAssignsUniqueIDs(t *testing.T) {
	a := newJob("/usr/bin/python3", nil)
	b := newJob("/usr/bin/python3", nil)
	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
}

func TestAppendOutputKeepsStreamsIndependent(t *testing.T) {
	j := newJob("cmd", nil)
	j.appendOutput(false, []byte("out"))
	j.appendOutput(true, []byte("err"))

	stdout, stderr, exitCode := j.snapshot()
	require.Equal(t, "out", stdout)
	require.Equal(t, "err", stderr)
	require.Nil(t, exitCode)
}

func TestAppendOutputTruncatesAtCap(t *testing.T) {
	j := newJob("cmd", nil)
	chunk := bytes.Repeat([]byte("x"), maxCapturedOutputBytes/2)
	j.appendOutput(false, chunk)
	j.appendOutput(false, chunk)
	j.appendOutput(false, []byte("overflow"))

	stdout, _, _ := j.snapshot()
	require.Len(t, stdout, maxCapturedOutputBytes)
	// Truncation on stdout must not affect stderr.
	j.appendOutput(true, []byte("still captured"))
	_, stderr, _ := j.snapshot()
	require.Equal(t, "still captured", stderr)
}

func TestMarkDoneRecordsExitCode(t *testing.T) {
	j := newJob("cmd", nil)
	j.markDone(3)
	_, _, exitCode := j.snapshot()
	require.NotNil(t, exitCode)
	require.Equal(t, 3, *exitCode)
}
