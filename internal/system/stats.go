package system

import (
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Snapshot is a point-in-time view of host and process memory
type Snapshot struct {
	Taken          time.Time
	HostTotal      uint64
	HostAvailable  uint64
	HostUsedPct    float64
	ProcessRSS     uint64
	ProcessThreads int32
}

// TakeSnapshot samples memory usage. Fields that cannot be read stay zero
// and the first error is returned alongside the partial snapshot.
func TakeSnapshot() (Snapshot, error) {
	s := Snapshot{Taken: time.Now()}
	var firstErr error

	vm, err := mem.VirtualMemory()
	if err != nil {
		firstErr = err
	} else {
		s.HostTotal = vm.Total
		s.HostAvailable = vm.Available
		s.HostUsedPct = vm.UsedPercent
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		if firstErr == nil {
			firstErr = err
		}
		return s, firstErr
	}

	if mi, err := p.MemoryInfo(); err == nil {
		s.ProcessRSS = mi.RSS
	} else if firstErr == nil {
		firstErr = err
	}
	if n, err := p.NumThreads(); err == nil {
		s.ProcessThreads = n
	} else if firstErr == nil {
		firstErr = err
	}

	return s, firstErr
}

// Fields renders the snapshot for structured logging.
func (s Snapshot) Fields() map[string]interface{} {
	return map[string]interface{}{
		"host_total":     humanize.Bytes(s.HostTotal),
		"host_available": humanize.Bytes(s.HostAvailable),
		"host_used_pct":  humanize.FtoaWithDigits(s.HostUsedPct, 1),
		"rss":            humanize.Bytes(s.ProcessRSS),
		"threads":        s.ProcessThreads,
	}
}

// RSSDelta returns how much the resident set grew since before.
func (s Snapshot) RSSDelta(before Snapshot) string {
	if s.ProcessRSS < before.ProcessRSS {
		return "-" + humanize.Bytes(before.ProcessRSS-s.ProcessRSS)
	}
	return humanize.Bytes(s.ProcessRSS - before.ProcessRSS)
}
