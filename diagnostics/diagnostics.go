// Package diagnostics implements host capability diagnostics: a sanity
// check operators run to confirm a host can actually enforce the rlimits
// this service configures, before trusting it in production.
package diagnostics

import (
	"fmt"
	"net"
	"os"
	stdruntime "runtime"
	"time"

	"github.com/ncw/directio"
)

// Result is the diagnostic snapshot returned by Run.
type Result struct {
	PID               int     `json:"pid"`
	PPID              int     `json:"ppid"`
	NetInterfaceAvail bool    `json:"net_interface_avail"`
	Dir               string  `json:"dir"`
	CPUTaskNanos      int64   `json:"cpu_task_nanos"`
	DiskBPS           float64 `json:"disk_bps,omitempty"`
}

// cpuBusyLoopIterations is a cheap proxy for contended CPU: wall time to
// burn through a fixed number of no-op iterations. A host where rlimits
// (or a noisy neighbor) are squeezing CPU time shows up as an inflated
// CPUTaskNanos relative to an unconstrained host.
const cpuBusyLoopIterations = 500_000_000

// 5MB is enough to get a stable direct-I/O throughput sample.
const writeDiskBytes = 5 * 1024 * 1024

// Run probes the host: process identity, network interface availability,
// current working directory, a CPU busy-loop's wall time, and (when
// writeDisk is true) direct-I/O disk write throughput. Operators run this
// before and after wiring resource_limits into a host to confirm the
// configured file_size_limit_kb/cpu_time_limit will actually bind: a
// correctly limited host shows markedly lower disk throughput and higher
// busy-loop wall time than an unconstrained one.
func Run(writeDisk bool) (*Result, error) {
	res := &Result{
		PID:  os.Getpid(),
		PPID: os.Getppid(),
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed getting interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Flags != 0 && iface.Flags != net.FlagLoopback {
			res.NetInterfaceAvail = true
			break
		}
	}

	if res.Dir, err = os.Getwd(); err != nil {
		return nil, fmt.Errorf("failed getting current working dir: %w", err)
	}

	stdruntime.GOMAXPROCS(1)
	start := time.Now()
	for i := uint64(0); i < cpuBusyLoopIterations; i++ {
	}
	res.CPUTaskNanos = time.Since(start).Nanoseconds()

	if writeDisk {
		bps, err := diskWriteThroughput()
		if err != nil {
			return nil, err
		}
		res.DiskBPS = bps
	}
	return res, nil
}

func diskWriteThroughput() (float64, error) {
	f, err := directio.OpenFile("sandboxd-diag-temp", os.O_WRONLY|os.O_CREATE|os.O_SYNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed opening temp file: %w", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	block := directio.AlignedBlock(directio.BlockSize)
	start := time.Now()
	for written := 0; written < writeDiskBytes; written += len(block) {
		if _, err := f.Write(block); err != nil {
			return 0, fmt.Errorf("failed writing temp file: %w", err)
		}
	}
	return writeDiskBytes / time.Since(start).Seconds(), nil
}
