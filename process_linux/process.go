//go:build linux

package process_linux

import (
	"fmt"
	"sort"
	"sync"

	"scdhook/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// LinuxProcess implements process.Inspector for Linux systems, including
// Windows targets running under Proton, which show up as ordinary Linux
// processes. Memory access goes through process_vm_readv/writev, region
// information through /proc/<pid>/maps.
type LinuxProcess struct {
	pid     process.ProcessID
	regions []process.Region
	log     *logger.Logger
	mu      sync.Mutex
}

// Open attaches to the process with the given PID.
func Open(pid process.ProcessID) (*LinuxProcess, error) {
	p := &LinuxProcess{
		log: logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open")),
	}

	if !procExists(pid) {
		return nil, fmt.Errorf("process with PID %d does not exist", pid)
	}

	p.mu.Lock()
	p.pid = pid
	p.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid)))
	p.mu.Unlock()

	if err := p.RefreshRegions(); err != nil {
		return nil, fmt.Errorf("failed to initialize memory map: %w", err)
	}

	p.log.Infoln("Process opened")

	return p, nil
}

// OpenByName attaches to the first process whose comm or executable basename
// equals name.
func OpenByName(name string) (*LinuxProcess, error) {
	pid, ok := FindProcess(name)
	if !ok {
		return nil, fmt.Errorf("no process found with name %q", name)
	}
	return Open(pid)
}

// Close releases the process. Idempotent.
func (p *LinuxProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pid == 0 {
		return nil
	}

	p.pid = 0
	p.regions = nil
	p.log.Infoln("Process closed")
	p.log = logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open"))

	return nil
}

// GetPID returns the process ID
func (p *LinuxProcess) GetPID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

// Alive reports whether the target still exists in /proc.
func (p *LinuxProcess) Alive() bool {
	p.mu.Lock()
	pid := p.pid
	p.mu.Unlock()

	if pid == 0 {
		return false
	}
	return procExists(pid)
}

// RefreshRegions re-reads /proc/<pid>/maps. The region cache is what
// QueryRegion serves; callers that scan long after opening should refresh
// first.
func (p *LinuxProcess) RefreshRegions() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pid == 0 {
		return process.ErrProcessNotOpen
	}

	regions, err := readRegions(p.pid)
	if err != nil {
		return fmt.Errorf("failed to read memory map: %w", err)
	}

	// QueryRegion and regionAt binary-search the cache.
	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Base < regions[j].Base
	})

	p.regions = regions
	return nil
}

// QueryRegion returns the cached region covering addr, or the next one above
// it; ok is false past the end of the map.
func (p *LinuxProcess) QueryRegion(addr process.ProcessMemoryAddress) (process.Region, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pid == 0 {
		return process.Region{}, false
	}

	idx := sort.Search(len(p.regions), func(i int) bool {
		return p.regions[i].End() > addr
	})
	if idx >= len(p.regions) {
		return process.Region{}, false
	}

	return p.regions[idx], true
}

// regionAt returns the cached region containing addr. Assumes the mutex is
// already locked.
func (p *LinuxProcess) regionAt(addr process.ProcessMemoryAddress) *process.Region {
	idx := sort.Search(len(p.regions), func(i int) bool {
		return p.regions[i].End() > addr
	})
	if idx < len(p.regions) && p.regions[idx].Base <= addr {
		return &p.regions[idx]
	}
	return nil
}

// isValidAddressInternal checks addr against the sanity bounds and the cached
// map. Assumes the mutex is already locked.
func (p *LinuxProcess) isValidAddressInternal(addr process.ProcessMemoryAddress) bool {
	if addr < process.MinValidAddress {
		return false
	}
	if addr > process.ScanLimit {
		return false
	}

	if r := p.regionAt(addr); r != nil {
		return r.IsReadable()
	}

	return false
}
