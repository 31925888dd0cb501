//go:build windows

package process_windows

import (
	"fmt"
	"sync"

	"scdhook/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"golang.org/x/sys/windows"
)

// openAccess is the handle access needed for scanning and hot-swap writes.
const openAccess = windows.PROCESS_QUERY_INFORMATION |
	windows.PROCESS_VM_READ |
	windows.PROCESS_VM_WRITE |
	windows.PROCESS_VM_OPERATION

// stillActive is the GetExitCodeProcess value of a running process
// (STILL_ACTIVE).
const stillActive = 259

// WindowsProcess implements process.Inspector for Windows systems.
type WindowsProcess struct {
	pid    process.ProcessID
	handle windows.Handle
	log    *logger.Logger
	mu     sync.Mutex
}

// Open attaches to the process with the given PID.
func Open(pid process.ProcessID) (*WindowsProcess, error) {
	handle, err := windows.OpenProcess(openAccess, false, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("OpenProcess failed: %w", err)
	}

	p := &WindowsProcess{
		pid:    pid,
		handle: handle,
		log:    logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid))),
	}

	p.log.Infoln("Process opened")

	return p, nil
}

// OpenByName attaches to the first process whose executable name equals name.
func OpenByName(name string) (*WindowsProcess, error) {
	pid, ok := FindProcess(name)
	if !ok {
		return nil, fmt.Errorf("no process found with name %q", name)
	}
	return Open(pid)
}

// Close releases the process handle. Idempotent.
func (p *WindowsProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle == 0 {
		return nil
	}

	if err := windows.CloseHandle(p.handle); err != nil {
		return fmt.Errorf("CloseHandle failed: %w", err)
	}

	p.handle = 0
	p.pid = 0
	p.log.Infoln("Process closed")
	p.log = logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open"))

	return nil
}

// GetPID returns the process ID
func (p *WindowsProcess) GetPID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

// Alive reports whether the target process is still running.
func (p *WindowsProcess) Alive() bool {
	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	if handle == 0 {
		return false
	}

	var code uint32
	if err := windows.GetExitCodeProcess(handle, &code); err != nil {
		return false
	}

	return code == stillActive
}
