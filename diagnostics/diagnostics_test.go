package diagnostics

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunWithoutDiskReportsProcessIdentity(t *testing.T) {
	res, err := Run(false)
	require.NoError(t, err)
	require.Equal(t, os.Getpid(), res.PID)
	require.NotEmpty(t, res.Dir)
	require.Zero(t, res.DiskBPS)
}

func TestRunWithDiskReportsThroughput(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	res, err := Run(true)
	if err != nil {
		t.Skipf("direct I/O unsupported in this environment: %v", err)
	}
	require.Greater(t, res.DiskBPS, float64(0))
}
